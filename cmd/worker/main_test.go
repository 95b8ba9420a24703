package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"coursefit-backend/internal/queue"
	"coursefit-backend/internal/shared/telemetry"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeProcessor struct {
	err  error
	seen []string
}

func (f *fakeProcessor) ProcessSubmission(ctx context.Context, msg queue.Message) error {
	f.seen = append(f.seen, msg.SubmissionID)
	return f.err
}

func submissionMessage(t *testing.T, id, receipt string) sqstypes.Message {
	t.Helper()
	body, err := queue.EncodeMessage(queue.SubmissionCreated(id, "Mr. Radia", "AA HL", 80, "req-"+id, time.Now()))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return sqstypes.Message{
		MessageId:     aws.String("m-" + id),
		ReceiptHandle: aws.String(receipt),
		Body:          aws.String(string(body)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	client := &fakeSQS{}
	proc := &fakeProcessor{}

	handleMessage(context.Background(), client, "queue", proc, submissionMessage(t, "sub-1", "r1"))

	if len(client.deleted) != 1 || len(proc.seen) != 1 {
		t.Fatalf("expected one processed and deleted message, got %v / %v", proc.seen, client.deleted)
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	client := &fakeSQS{}
	proc := &fakeProcessor{err: errors.New("boom")}

	handleMessage(context.Background(), client, "queue", proc, submissionMessage(t, "sub-2", "r2"))

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnInvalidJSON(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	client := &fakeSQS{}
	proc := &fakeProcessor{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{bad-json"),
	}

	handleMessage(context.Background(), client, "queue", proc, msg)

	if len(client.deleted) != 1 || len(proc.seen) != 0 {
		t.Fatalf("expected delete without processing, got %v / %v", proc.seen, client.deleted)
	}
}

func TestWorkerLogsProcessingFailureWithSubmission(t *testing.T) {
	var logs bytes.Buffer
	t.Cleanup(telemetry.SetOutput(&logs))
	client := &fakeSQS{}
	proc := &fakeProcessor{err: errors.New("bucket unavailable")}

	handleMessage(context.Background(), client, "queue", proc, submissionMessage(t, "sub-4", "r4"))

	out := logs.String()
	for _, want := range []string{"worker.event.failed", `"submission_id":"sub-4"`, `"request_id":"req-sub-4"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in logs: %s", want, out)
		}
	}
}

func TestWorkerKeepsMessageWithoutProcessor(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	client := &fakeSQS{}

	handleMessage(context.Background(), client, "queue", nil, submissionMessage(t, "sub-5", "r5"))

	if len(client.deleted) != 0 {
		t.Fatalf("expected message to stay queued, got %v", client.deleted)
	}
}

func TestReceiveCount(t *testing.T) {
	if got := receiveCount(sqstypes.Message{Attributes: map[string]string{"ApproximateReceiveCount": "3"}}); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := receiveCount(sqstypes.Message{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
