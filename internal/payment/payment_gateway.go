// Package payment opens Midtrans Snap sessions for orders whose first
// payment attempt did not complete.
package payment

import (
	"fmt"
	"strings"

	midtransgo "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=payment_gateway.go -destination=../mock/payment/payment_gateway_mock.go -package=mock
type Gateway interface {
	CreateSession(req *SessionRequest) (*SessionResponse, error)
}

type snapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtransgo.Error)
}

type gateway struct {
	client snapClient
	logger *zap.Logger
}

// NewGateway returns nil when serverKey is empty; callers treat a nil Gateway
// as "online payment retries disabled".
func NewGateway(serverKey string, isProduction bool, logger *zap.Logger) Gateway {
	if serverKey == "" {
		return nil
	}

	env := midtransgo.Sandbox
	if isProduction {
		env = midtransgo.Production
	}

	c := &snap.Client{}
	c.New(serverKey, env)

	return newGateway(c, logger)
}

func newGateway(client snapClient, logger *zap.Logger) *gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gateway{client: client, logger: logger.Named("payment.gateway")}
}

func (g *gateway) CreateSession(req *SessionRequest) (*SessionResponse, error) {
	gross := toMinor(req.Amount)
	if gross <= 0 {
		return nil, ErrInvalidAmount
	}

	snapReq := &snap.Request{
		TransactionDetails: midtransgo.TransactionDetails{
			OrderID:  req.GatewayOrderID,
			GrossAmt: gross,
		},
	}

	if req.Customer != nil {
		first, last := splitName(req.Customer.Name)
		snapReq.CustomerDetail = &midtransgo.CustomerDetails{
			FName: first,
			LName: last,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		}
	}

	// Snap rejects item lists that do not add up to the gross amount, so
	// items are only sent when they do.
	items := make([]midtransgo.ItemDetails, 0, len(req.Items))
	var sum int64
	for _, item := range req.Items {
		price := toMinor(item.Price)
		sum += price * int64(item.Quantity)
		items = append(items, midtransgo.ItemDetails{
			ID:    item.ID,
			Price: price,
			Qty:   item.Quantity,
			Name:  truncate(item.Name, 50),
		})
	}
	if len(items) > 0 && sum == gross {
		snapReq.Items = &items
	}

	snapResp, snapErr := g.client.CreateTransaction(snapReq)
	if snapErr != nil {
		g.logger.Warn("snap transaction failed",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("error", snapErr.Message),
			zap.Int("status", snapErr.StatusCode),
		)
		return nil, fmt.Errorf("create snap transaction: %w", ErrGatewayFailed)
	}

	return &SessionResponse{
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

// toMinor rounds to whole currency units; Snap amounts carry no decimals.
func toMinor(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, " "); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
