// Package awsclient adapts the AWS SDK to the blob-storage and key-management
// interfaces used by the dispatcher and credential resolver.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Clients groups the AWS collaborators of one process.
type Clients struct {
	Objects   *ObjectFetcher
	Decrypter *Decrypter
}

// Load builds clients from the default credential chain (the Lambda
// execution role when running inside Lambda).
func Load(ctx context.Context) (*Clients, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Clients{
		Objects:   NewObjectFetcher(s3.NewFromConfig(cfg)),
		Decrypter: NewDecrypter(kms.NewFromConfig(cfg)),
	}, nil
}
