package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/infrastructure/config"
)

const ssmSourceName = "ssm"

// SSMOffsetSourceRepository reads the cutover from AWS Systems Manager Parameter Store
type SSMOffsetSourceRepository struct {
	client        ssmiface.SSMAPI
	parameterName string
}

// NewSSMOffsetSourceRepository creates a new SSM source using the shared AWS config
func NewSSMOffsetSourceRepository(cfg *config.SSMSourceConfig) (*SSMOffsetSourceRepository, error) {
	if cfg == nil || cfg.ParameterName == "" {
		return nil, domain.ErrInvalidInput("ssm.parameter_name", "the ssm source requires a parameter name")
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Profile:           cfg.AWSProfile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := ssm.New(sess, &aws.Config{Region: aws.String(cfg.Region)})
	return NewSSMOffsetSourceWithClient(client, cfg.ParameterName), nil
}

// NewSSMOffsetSourceWithClient wraps an existing SSM client
func NewSSMOffsetSourceWithClient(client ssmiface.SSMAPI, parameterName string) *SSMOffsetSourceRepository {
	return &SSMOffsetSourceRepository{
		client:        client,
		parameterName: parameterName,
	}
}

func (r *SSMOffsetSourceRepository) Name() string {
	return ssmSourceName
}

// FetchOffset reads the parameter value
func (r *SSMOffsetSourceRepository) FetchOffset(ctx context.Context) (string, error) {
	out, err := r.client.GetParameterWithContext(ctx, &ssm.GetParameterInput{
		Name:           aws.String(r.parameterName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == ssm.ErrCodeParameterNotFound {
			return "", domain.ErrConfigFetchFailed(ssmSourceName, fmt.Sprintf("parameter %s not found", r.parameterName))
		}
		return "", domain.ErrConfigFetchFailedWithCause(ssmSourceName, err).
			WithDetails("parameter", r.parameterName)
	}

	if out.Parameter == nil || aws.StringValue(out.Parameter.Value) == "" {
		return "", domain.ErrConfigFetchFailed(ssmSourceName, fmt.Sprintf("parameter %s has no value", r.parameterName))
	}

	return aws.StringValue(out.Parameter.Value), nil
}

// StoreOffset overwrites the parameter as a String
func (r *SSMOffsetSourceRepository) StoreOffset(ctx context.Context, raw string) error {
	_, err := r.client.PutParameterWithContext(ctx, &ssm.PutParameterInput{
		Name:      aws.String(r.parameterName),
		Value:     aws.String(raw),
		Type:      aws.String(ssm.ParameterTypeString),
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		return domain.ErrRepository("ssm.PutParameter", err)
	}
	return nil
}
