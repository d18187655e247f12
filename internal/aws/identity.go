package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// CallerIdentity represents AWS caller identity information
type CallerIdentity struct {
	Account string
	Arn     string
	UserID  string
}

// CallerIdentity returns the identity the mirror uploads as. It is used as
// a startup check so bad AWS credentials fail before any collection starts.
func (m *Mirror) CallerIdentity(ctx context.Context) (*CallerIdentity, error) {
	stsClient := sts.NewFromConfig(m.cfg)

	output, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("verify AWS credentials for %s: %w", m.Name(), err)
	}

	return &CallerIdentity{
		Account: deref(output.Account),
		Arn:     deref(output.Arn),
		UserID:  deref(output.UserId),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
