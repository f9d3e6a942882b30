package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const AttachmentsFolder = "jocky/riders"

var ErrUploadsDisabled = errors.New("attachment uploads are not configured")

type CustomClaims struct {
	Role         string         `json:"role"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// TokenValidator turns a bearer token into the caller's claims.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Claims, error)
}

// JWKSValidator checks Supabase-issued tokens against the project's JWKS,
// refreshed in the background.
type JWKSValidator struct {
	jwks *keyfunc.JWKS
}

func NewJWKSValidator(ctx context.Context, supabaseURL string, onRefreshError func(error)) (*JWKSValidator, error) {
	if supabaseURL == "" {
		return nil, errors.New("SUPABASE_URL not set")
	}
	jwksURL := strings.TrimRight(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json"

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:                 ctx,
		RefreshInterval:     time.Hour,
		RefreshRateLimit:    5 * time.Minute,
		RefreshTimeout:      10 * time.Second,
		RefreshUnknownKID:   true,
		RefreshErrorHandler: onRefreshError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	return &JWKSValidator{jwks: jwks}, nil
}

func (v *JWKSValidator) Validate(ctx context.Context, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, v.jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return ClaimsFrom(claims), nil
}

func (v *JWKSValidator) Close() {
	v.jwks.EndBackground()
}

// HS256Validator checks tokens signed with a shared secret, for local
// development against a self-hosted GoTrue.
type HS256Validator struct {
	secret []byte
}

func NewHS256Validator(secret string) *HS256Validator {
	return &HS256Validator{secret: []byte(secret)}
}

func (v *HS256Validator) Validate(ctx context.Context, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return ClaimsFrom(claims), nil
}

// Sign issues an HS256 token for the given claims.
func (v *HS256Validator) Sign(claims *CustomClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[@$!%*?&]`).MatchString(password)
	return hasLower && hasUpper && hasNumber && hasSpecial
}

// CleanID trims whitespace and stray quotes that clients leave around path ids.
func CleanID(id string) string {
	return strings.Trim(strings.TrimSpace(id), "\"'")
}

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, name string) (string, error)
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string) *CloudinaryUploader {
	if folder == "" {
		folder = AttachmentsFolder
	}
	return &CloudinaryUploader{cld: cld, folder: folder}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, name string) (string, error) {
	if u == nil || u.cld == nil {
		return "", ErrUploadsDisabled
	}
	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       u.folder,
		PublicID:     strings.TrimSuffix(name, ".pdf"),
		ResourceType: "auto",
		Tags:         []string{"jocky-rider"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload %s: %s", name, res.Error.Message)
	}
	return res.SecureURL, nil
}
