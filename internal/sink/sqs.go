package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/mrlokans/mapharvest/internal/datacite"
)

// SQSAPI is the part of the SQS client used for publishing.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSink publishes each document as a JSON message for downstream indexers.
type SQSSink struct {
	client   SQSAPI
	queueURL string
}

func NewSQSSink(client SQSAPI, queueURL string) *SQSSink {
	return &SQSSink{client: client, queueURL: queueURL}
}

func (s *SQSSink) Put(ctx context.Context, etlName, version string, doc *datacite.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"etl": {
				DataType:    aws.String("String"),
				StringValue: aws.String(etlName),
			},
			"version": {
				DataType:    aws.String("String"),
				StringValue: aws.String(version),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message for document %s: %w", doc.Identifier.Value, err)
	}
	return nil
}
