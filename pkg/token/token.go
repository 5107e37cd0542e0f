package token

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

// DefaultTTL is how long a fetched secret is reused.
const DefaultTTL = 30 * time.Second

// Source returns the shared token clients must present.
type Source interface {
	Token(ctx context.Context) (string, error)
}

// SecretsManager reads the shared token from a Secrets Manager secret and
// caches it for TTL.
type SecretsManager struct {
	Client    secretsmanageriface.SecretsManagerAPI
	SecretARN string
	TTL       time.Duration

	now func() time.Time

	mu  sync.RWMutex
	val string
	exp time.Time
}

// NewSecretsManager returns a Source caching the secret for DefaultTTL.
func NewSecretsManager(client secretsmanageriface.SecretsManagerAPI, secretARN string) *SecretsManager {
	return &SecretsManager{
		Client:    client,
		SecretARN: secretARN,
		TTL:       DefaultTTL,
		now:       time.Now,
	}
}

// Token implements Source.
func (s *SecretsManager) Token(ctx context.Context) (string, error) {
	now := s.clock()

	s.mu.RLock()
	if s.val != "" && now.Before(s.exp) {
		v := s.val
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	out, err := s.Client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.SecretARN),
	})
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(aws.StringValue(out.SecretString))

	s.mu.Lock()
	s.val = v
	s.exp = now.Add(s.TTL)
	s.mu.Unlock()
	return v, nil
}

func (s *SecretsManager) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
