package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Presigner produces signed upload URLs for the external object store
// and derives the public CDN URL for the resulting object.
type Presigner struct {
	cdnBaseURL    string
	uploadBaseURL string
	accessKey     string
	secret        []byte
	ttl           time.Duration
	now           func() time.Time
}

// PresignedUpload describes everything a client needs to PUT the binary
// body directly to the object store.
type PresignedUpload struct {
	ObjectName     string    `json:"object_name"`
	UploadURL      string    `json:"upload_url"`
	AccessKey      string    `json:"access_key"`
	AccessKeyField string    `json:"access_key_header"`
	PublicURL      string    `json:"public_url"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// AccessKeyHeader is the header the object store requires on direct PUTs.
const AccessKeyHeader = "X-Storage-Access-Key"

// NewPresigner constructs a presigner with the provided contract parameters.
func NewPresigner(cdnBaseURL, uploadBaseURL, accessKey, secret string, ttl time.Duration) *Presigner {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Presigner{
		cdnBaseURL:    strings.TrimRight(cdnBaseURL, "/"),
		uploadBaseURL: strings.TrimRight(uploadBaseURL, "/"),
		accessKey:     accessKey,
		secret:        []byte(secret),
		ttl:           ttl,
		now:           time.Now,
	}
}

// Presign generates an object name from the original filename and signs
// an upload token for it.
func (p *Presigner) Presign(prefix, filename string) (*PresignedUpload, error) {
	if len(p.secret) == 0 {
		return nil, fmt.Errorf("signing secret missing")
	}
	ext := strings.ToLower(path.Ext(filename))
	objectName := uuid.NewString() + ext
	if prefix != "" {
		objectName = strings.Trim(prefix, "/") + "/" + objectName
	}

	expiresAt := p.now().Add(p.ttl)
	token := p.sign(objectName, expiresAt)

	return &PresignedUpload{
		ObjectName:     objectName,
		UploadURL:      fmt.Sprintf("%s/%s?expires=%d&token=%s", p.uploadBaseURL, objectName, expiresAt.Unix(), token),
		AccessKey:      p.accessKey,
		AccessKeyField: AccessKeyHeader,
		PublicURL:      p.PublicURL(objectName),
		ExpiresAt:      expiresAt,
	}, nil
}

// PublicURL derives the CDN URL for a stored object.
func (p *Presigner) PublicURL(objectName string) string {
	return p.cdnBaseURL + "/" + strings.TrimLeft(objectName, "/")
}

// Verify checks an upload token against the object name and expiry.
func (p *Presigner) Verify(objectName string, expiresUnix int64, token string) error {
	expiresAt := time.Unix(expiresUnix, 0)
	expected := p.sign(objectName, expiresAt)
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return fmt.Errorf("invalid upload token")
	}
	if p.now().After(expiresAt) {
		return fmt.Errorf("upload token expired")
	}
	return nil
}

func (p *Presigner) sign(objectName string, expiresAt time.Time) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(objectName))
	payload := fmt.Sprintf("%s|%d", encoded, expiresAt.Unix())
	mac := hmac.New(sha256.New, p.secret)
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
