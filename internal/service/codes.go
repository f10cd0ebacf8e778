package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// Invite codes are 8 uppercase alphanumerics, matched case-insensitively
// (canonicalized to upper at lookup).
const (
	inviteCodeLength  = 8
	inviteCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeRetries = 5
)

func randomInviteCode() (string, error) {
	code := make([]byte, inviteCodeLength)
	max := big.NewInt(int64(len(inviteCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		code[i] = inviteCodeCharset[n.Int64()]
	}
	return string(code), nil
}

// newUniqueInviteCode generates a code that does not collide with any
// existing group or invite code, retrying a bounded number of times.
func newUniqueInviteCode(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < inviteCodeRetries; i++ {
		code, err := randomInviteCode()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique invite code after %d attempts", inviteCodeRetries)
}
