package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"smsburst-backend/models"
	"smsburst-backend/ratelimit"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const masterRateLimit = 999

// HashAPIKey is a fast one-way hash used for lookup only; raw keys are
// high-entropy server-generated secrets, so no salt or KDF is needed.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}

// GenerateAPIKey returns a fresh raw key. It is shown to the caller once;
// only its hash is ever persisted.
func GenerateAPIKey() (string, error) {
	return randomHex(32)
}

// KeyInfo is the resolved identity of a validated key.
type KeyInfo struct {
	Id        uint
	Role      string
	RateLimit int
}

// KeyStore validates API keys against the api_keys table, with a break-glass
// master key that bypasses the table entirely.
type KeyStore struct {
	db        *gorm.DB
	limiter   *ratelimit.Limiter
	masterKey string
	log       zerolog.Logger
}

func NewKeyStore(db *gorm.DB, limiter *ratelimit.Limiter, masterKey string, log zerolog.Logger) *KeyStore {
	return &KeyStore{db: db, limiter: limiter, masterKey: masterKey, log: log}
}

// Validate resolves a raw key to its identity. A nil KeyInfo with a nil error
// means the key is unknown, inactive, or lacks the required role; the cause is
// not distinguished. A *ratelimit.LimitError is returned when the key is over
// its window.
func (s *KeyStore) Validate(raw, requiredRole string) (*KeyInfo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	// Break-glass path: the master key never touches the table but every use
	// is audit-logged.
	if s.masterKey != "" && subtle.ConstantTimeCompare([]byte(raw), []byte(s.masterKey)) == 1 {
		s.log.Warn().Str("event", "master_key_used").Msg("break-glass master key authenticated")
		return &KeyInfo{Id: 0, Role: models.RoleAdmin, RateLimit: masterRateLimit}, nil
	}

	keyHash := HashAPIKey(raw)

	var key models.ApiKey
	err := s.db.Where("key_hash = ? AND is_active = ?", keyHash, true).First(&key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if requiredRole == models.RoleAdmin && key.Role != models.RoleAdmin {
		return nil, nil
	}

	if !s.limiter.Allow(keyHash, key.RateLimit) {
		return nil, &ratelimit.LimitError{Limit: key.RateLimit}
	}

	// Touch last_used only after every check passed.
	now := time.Now()
	if err := s.db.Model(&models.ApiKey{}).Where("key_hash = ?", keyHash).
		Update("last_used", now).Error; err != nil {
		return nil, err
	}

	return &KeyInfo{Id: key.Id, Role: key.Role, RateLimit: key.RateLimit}, nil
}

// SeedMasterKey ensures an api_keys row exists for the master key hash so the
// admin dashboard lists it; validation still short-circuits before the table.
func (s *KeyStore) SeedMasterKey() error {
	if s.masterKey == "" {
		return nil
	}
	key := models.ApiKey{
		KeyHash:   HashAPIKey(s.masterKey),
		Label:     "master-admin",
		Role:      models.RoleAdmin,
		RateLimit: masterRateLimit,
	}
	return s.db.Where("key_hash = ?", key.KeyHash).FirstOrCreate(&key).Error
}
