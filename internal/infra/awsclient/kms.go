package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// KMSAPI is the subset of the KMS client used here.
type KMSAPI interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// Decrypter decrypts ciphertext blobs with KMS.
type Decrypter struct {
	client KMSAPI
}

func NewDecrypter(client KMSAPI) *Decrypter {
	return &Decrypter{client: client}
}

// Decrypt returns the plaintext for a KMS ciphertext blob.
func (d *Decrypter) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	out, err := d.client.Decrypt(ctx, &kms.DecryptInput{CiphertextBlob: ciphertext})
	if err != nil {
		return nil, fmt.Errorf("kms decrypt: %w", err)
	}
	return out.Plaintext, nil
}
