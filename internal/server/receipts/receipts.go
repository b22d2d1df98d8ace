// Package receipts archives a JSON receipt to S3-compatible object storage
// for every transaction that reaches Completed.
package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/veil/internal/server/config"
	"github.com/dmitrijs2005/veil/internal/server/models"
	"github.com/google/uuid"
)

// Archiver stores a receipt for a completed transaction.
type Archiver interface {
	Archive(ctx context.Context, t *models.Transaction) error
}

// ObjectPutter is the part of *s3.Client used here.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Receipt is the archived document.
type Receipt struct {
	ReceiptID  string    `json:"receipt_id"`
	ID         int64     `json:"transaction_id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Amount     string    `json:"amount"`
	Recipient  string    `json:"recipient,omitempty"`
	FromUser   string    `json:"from_user,omitempty"`
	Memo       string    `json:"memo"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ArchivedAt time.Time `json:"archived_at"`
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Archiver struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

func NewS3Archiver(client ObjectPutter, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, now: time.Now}
}

// NewS3ArchiverFromConfig builds an archiver talking to cfg's S3 endpoint
// with static credentials and path-style addressing (MinIO friendly).
func NewS3ArchiverFromConfig(ctx context.Context, cfg *config.Config) (*S3Archiver, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return NewS3Archiver(client, cfg.S3Bucket), nil
}

// Key is the object key of t's receipt.
func Key(t *models.Transaction) string {
	return fmt.Sprintf("receipts/%s/%d.json", t.UserID, t.ID)
}

func (a *S3Archiver) Archive(ctx context.Context, t *models.Transaction) error {
	body, err := json.Marshal(Receipt{
		ReceiptID:  uuid.NewString(),
		ID:         t.ID,
		UserID:     t.UserID,
		Type:       t.Type,
		Amount:     t.Amount,
		Recipient:  t.Recipient,
		FromUser:   t.FromUser,
		Memo:       t.Memo,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
		ArchivedAt: a.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(t)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put receipt %s: %w", Key(t), err)
	}
	return nil
}

// Nop discards receipts. Used when no bucket is configured.
type Nop struct{}

func (Nop) Archive(context.Context, *models.Transaction) error { return nil }
