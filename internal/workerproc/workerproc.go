// Package workerproc turns submission events from the queue into refreshed
// per-teacher export snapshots in the object store.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"coursefit-backend/internal/queue"
	"coursefit-backend/internal/shared/telemetry"
	"coursefit-backend/internal/submissions"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrUnsupportedType indicates an event this worker does not handle.
type ErrUnsupportedType struct {
	Meta MessageMeta
	Type string
}

func (e ErrUnsupportedType) Error() string { return "unsupported message type " + e.Type }

// ErrMissingSubmissionID indicates a message missing the submission id.
type ErrMissingSubmissionID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingSubmissionID) Error() string { return "missing submission id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	SubmissionID string
	RequestID    string
	Err          error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process submission event"
	}
	return "process submission event: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if msg.Type != queue.TypeSubmissionCreated {
		return msg, meta, ErrUnsupportedType{Meta: meta, Type: msg.Type}
	}
	if strings.TrimSpace(msg.SubmissionID) == "" {
		return msg, meta, ErrMissingSubmissionID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// Unrecoverable reports whether a parse error means redelivery cannot help.
func Unrecoverable(err error) bool {
	var (
		empty       ErrEmptyBody
		decode      ErrDecode
		unsupported ErrUnsupportedType
		missing     ErrMissingSubmissionID
	)
	return errors.As(err, &empty) || errors.As(err, &decode) ||
		errors.As(err, &unsupported) || errors.As(err, &missing)
}

// SnapshotWriter overwrites the stable export snapshot for a scope.
type SnapshotWriter interface {
	RefreshSnapshot(ctx context.Context, scope submissions.Scope, format submissions.Format) (string, submissions.Export, error)
}

// Processor refreshes the export snapshot for the teacher named in an event.
type Processor struct {
	Snapshots SnapshotWriter
	Format    submissions.Format
}

// NewProcessor builds a Processor writing CSV snapshots.
func NewProcessor(snapshots SnapshotWriter) *Processor {
	return &Processor{Snapshots: snapshots, Format: submissions.FormatCSV}
}

// ProcessSubmission refreshes the teacher-scoped snapshot for msg.
func (p *Processor) ProcessSubmission(ctx context.Context, msg queue.Message) error {
	if p == nil || p.Snapshots == nil {
		return errors.New("snapshot writer not configured")
	}
	format := p.Format
	if format == "" {
		format = submissions.FormatCSV
	}
	key, exp, err := p.Snapshots.RefreshSnapshot(ctx, submissions.Scope{Teacher: msg.Teacher}, format)
	if err != nil {
		return err
	}
	telemetry.Info("worker.snapshot.refreshed", telemetry.Fields{
		"submission_id": msg.SubmissionID,
		"request_id":    msg.RequestID,
		"teacher":       msg.Teacher,
		"storage_key":   key,
		"rows":          exp.Rows,
	})
	return nil
}

// SubmissionProcessor handles one decoded submission event.
type SubmissionProcessor interface {
	ProcessSubmission(ctx context.Context, msg queue.Message) error
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, processor SubmissionProcessor, body string) error {
	if processor == nil {
		return errors.New("submission processor not configured")
	}
	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}
	if err := processor.ProcessSubmission(ctx, msg); err != nil {
		return ErrProcess{SubmissionID: msg.SubmissionID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
