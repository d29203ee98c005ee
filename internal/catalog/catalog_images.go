package catalog

import (
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
)

const productImageTransformation = "c_fill,w_800,h_800,q_auto"

// ImageResolver turns a stored image reference into a URL the browser can load.
type ImageResolver interface {
	URL(ref string) string
}

type cloudinaryResolver struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryResolver resolves bare Cloudinary public ids into secure
// delivery URLs. References that already are URLs pass through.
func NewCloudinaryResolver(cloudName, apiKey, apiSecret string) (ImageResolver, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &cloudinaryResolver{cld: cld}, nil
}

func (r *cloudinaryResolver) URL(ref string) string {
	if ref == "" || isURL(ref) {
		return ref
	}
	img, err := r.cld.Image(ref)
	if err != nil {
		return ref
	}
	img.Transformation = productImageTransformation
	u, err := img.String()
	if err != nil {
		return ref
	}
	return u
}

type passthroughResolver struct{}

// PassthroughImages is used when Cloudinary is not configured.
func PassthroughImages() ImageResolver { return passthroughResolver{} }

func (passthroughResolver) URL(ref string) string { return ref }

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "/")
}
