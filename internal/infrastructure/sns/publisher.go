package sns

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-verify-link/internal/config"
	"github.com/go-verify-link/internal/domain"
)

// EventPublisher announces successful verifications on an SNS topic.
type EventPublisher interface {
	PublishVerified(ctx context.Context, p *domain.Pairing) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

func NewPublisher(cfg *config.Config) (EventPublisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &publisher{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

func (p *publisher) PublishVerified(ctx context.Context, pairing *domain.Pairing) error {
	body, err := json.Marshal(pairing)
	if err != nil {
		return fmt.Errorf("marshal verification event: %w", err)
	}
	msg := string(body)
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &p.topicARN,
		Message:  &msg,
	})
	return err
}
