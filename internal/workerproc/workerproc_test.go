package workerproc

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"coursefit-backend/internal/queue"
	"coursefit-backend/internal/shared/storage/object/local"
	"coursefit-backend/internal/shared/telemetry"
	"coursefit-backend/internal/submissions"
)

type fakeSnapshots struct {
	scopes []submissions.Scope
	err    error
}

func (f *fakeSnapshots) RefreshSnapshot(ctx context.Context, scope submissions.Scope, format submissions.Format) (string, submissions.Export, error) {
	f.scopes = append(f.scopes, scope)
	if f.err != nil {
		return "", submissions.Export{}, f.err
	}
	return "abc/" + string(format), submissions.Export{Rows: 2}, nil
}

func encoded(t *testing.T, msg queue.Message) string {
	t.Helper()
	body, err := queue.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(body)
}

func TestParseMessage(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	valid := encoded(t, queue.SubmissionCreated("sub-1", "Mr. Radia", "AA HL", 80, "req-1", now))

	msg, meta, err := ParseMessage(valid)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.SubmissionID != "sub-1" || meta.BodyLen != len(valid) || meta.BodySHA == "" {
		t.Fatalf("unexpected parse result %+v %+v", msg, meta)
	}

	missing := queue.SubmissionCreated("", "Mr. Radia", "AA HL", 80, "req-2", now)
	other := queue.SubmissionCreated("sub-3", "Mr. Radia", "AA HL", 80, "", now)
	other.Type = "submission.deleted"

	cases := map[string]string{
		"empty":       "  ",
		"bad_json":    "{bad",
		"old_version": `{"type":"submission.created","submissionId":"x","version":0}`,
		"missing_id":  encoded(t, missing),
		"other_type":  encoded(t, other),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseMessage(body)
			if err == nil || !Unrecoverable(err) {
				t.Fatalf("expected unrecoverable error, got %v", err)
			}
		})
	}
}

func TestHandleMessageArchivesTeacherSnapshot(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	snapshots := &fakeSnapshots{}
	body := encoded(t, queue.SubmissionCreated("sub-1", "Mr. Neves", "AI SL", 70, "req-1", time.Now()))

	if err := HandleMessage(context.Background(), NewProcessor(snapshots), body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(snapshots.scopes) != 1 || snapshots.scopes[0].Teacher != "Mr. Neves" {
		t.Fatalf("unexpected archive scopes %+v", snapshots.scopes)
	}
}

func TestHandleMessageWrapsProcessingErrors(t *testing.T) {
	snapshots := &fakeSnapshots{err: errors.New("bucket unavailable")}
	body := encoded(t, queue.SubmissionCreated("sub-1", "Mr. Neves", "AI SL", 70, "req-1", time.Now()))

	err := HandleMessage(context.Background(), NewProcessor(snapshots), body)
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if procErr.SubmissionID != "sub-1" || Unrecoverable(err) {
		t.Fatalf("unexpected error classification %+v", procErr)
	}
}

func TestRepeatedEventsRefreshOneSnapshot(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	dir := t.TempDir()
	clock := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	repo := submissions.NewMemoryRepo()
	svc := &submissions.Service{
		Repo:  repo,
		Store: local.New(dir),
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}
	processor := NewProcessor(svc)
	ctx := context.Background()

	for i, id := range []string{"sub-1", "sub-2", "sub-3"} {
		if err := repo.Create(ctx, submissions.Submission{
			ID:        id,
			Name:      "Student " + id,
			Teacher:   "Mr. Radia",
			CreatedAt: clock.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
		body := encoded(t, queue.SubmissionCreated(id, "Mr. Radia", "AA HL", 80, "req-"+id, clock))
		if err := HandleMessage(ctx, processor, body); err != nil {
			t.Fatalf("HandleMessage %s: %v", id, err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != submissions.SnapshotName(submissions.FormatCSV) {
		t.Fatalf("expected one refreshed snapshot, got %v", files)
	}

	rc, err := svc.OpenSnapshot(ctx, submissions.Scope{Teacher: "Mr. Radia"}, submissions.FormatCSV)
	if err != nil {
		t.Fatalf("OpenSnapshot: %v", err)
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if got := bytes.Count(buf.Bytes(), []byte("Student sub-")); got != 3 {
		t.Fatalf("expected 3 rows in snapshot, got %d", got)
	}
}
