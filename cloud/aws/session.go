package aws

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/pkg/errors"
)

// NewSession creates a session bound to a named shared config profile and a region
func NewSession(profile, region string) (*session.Session, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *aws.NewConfig().WithRegion(region),
		Profile:           profile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "profile:%s failed to create aws session", profile)
	}
	return sess, nil
}
