package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// TypeSubmissionCreated announces a newly stored questionnaire submission.
	TypeSubmissionCreated = "submission.created"
	messageVersion        = 1
)

// Message is the payload sent to downstream queue consumers.
type Message struct {
	Type         string `json:"type"`
	SubmissionID string `json:"submissionId"`
	Teacher      string `json:"teacher"`
	Course       string `json:"course"`
	Confidence   int    `json:"confidence"`
	RequestID    string `json:"requestId,omitempty"`
	EnqueuedAt   string `json:"enqueuedAt"`
	Version      int    `json:"version"`
}

// SubmissionCreated builds the notification for a stored submission.
func SubmissionCreated(submissionID, teacher, course string, confidence int, requestID string, now time.Time) Message {
	return Message{
		Type:         TypeSubmissionCreated,
		SubmissionID: submissionID,
		Teacher:      teacher,
		Course:       course,
		Confidence:   confidence,
		RequestID:    requestID,
		EnqueuedAt:   now.UTC().Format(time.RFC3339),
		Version:      messageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Version != messageVersion {
		return Message{}, fmt.Errorf("unsupported message version %d", msg.Version)
	}
	return msg, nil
}
