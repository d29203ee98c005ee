package payment

type SnapClient = snapClient

func NewGatewayWithClient(c SnapClient) Gateway {
	return newGateway(c, nil)
}
