package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	gosync "sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/pkg/sync"
	"golang.org/x/oauth2"
	"google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const payloadField = "payload"

// FirestoreStore keeps each user's budget document at
// budgets/{userID} in the project's default Firestore database. The whole
// state is stored as one JSON string field, which keeps the wire format
// identical to the local cache. Updates from other devices are observed by
// polling the document's update time.
type FirestoreStore struct {
	service      *firestore.Service
	projectID    string
	pollInterval time.Duration
}

func NewFirestoreStore(ctx context.Context, projectID, token string, pollInterval time.Duration) (*FirestoreStore, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	service, err := firestore.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("unable to create Firestore client: %w", err)
	}
	return &FirestoreStore{
		service:      service,
		projectID:    projectID,
		pollInterval: pollInterval,
	}, nil
}

func (s *FirestoreStore) documentName(userID string) string {
	return fmt.Sprintf("projects/%s/databases/(default)/documents/budgets/%s", s.projectID, userID)
}

func (s *FirestoreStore) Load(ctx context.Context, userID string) (*sync.Document, error) {
	raw, err := s.service.Projects.Databases.Documents.Get(s.documentName(userID)).Context(ctx).Do()
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load remote document: %w", err)
	}
	return decodeDocument(raw)
}

func (s *FirestoreStore) Save(ctx context.Context, userID string, doc sync.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("unable to encode remote document: %w", err)
	}

	_, err = s.service.Projects.Databases.Documents.Patch(s.documentName(userID), &firestore.Document{
		Fields: map[string]firestore.Value{
			payloadField: {StringValue: string(payload)},
			"updatedAt":  {TimestampValue: doc.UpdatedAt.UTC().Format(time.RFC3339Nano)},
		},
	}).UpdateMaskFieldPaths(payloadField, "updatedAt").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to save remote document: %w", err)
	}
	return nil
}

// Subscribe polls the document and invokes fn whenever its update time moves.
// The first observation only records the baseline so the initial Load is not
// replayed.
func (s *FirestoreStore) Subscribe(ctx context.Context, userID string, fn func(sync.Document)) (func(), error) {
	stop := make(chan struct{})
	go s.poll(ctx, userID, fn, stop)

	var once gosync.Once
	return func() {
		once.Do(func() { close(stop) })
	}, nil
}

func (s *FirestoreStore) poll(ctx context.Context, userID string, fn func(sync.Document), stop <-chan struct{}) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	lastUpdate := ""
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		raw, err := s.service.Projects.Databases.Documents.Get(s.documentName(userID)).Context(ctx).Do()
		if isNotFound(err) {
			continue
		}
		if err != nil {
			log.Debugf("Remote poll failed: %v", err)
			continue
		}
		if raw.UpdateTime == lastUpdate {
			continue
		}
		if lastUpdate == "" {
			lastUpdate = raw.UpdateTime
			continue
		}
		lastUpdate = raw.UpdateTime

		doc, err := decodeDocument(raw)
		if err != nil {
			log.Errorf("Ignoring undecodable remote update: %v", err)
			continue
		}
		fn(*doc)
	}
}

func decodeDocument(raw *firestore.Document) (*sync.Document, error) {
	value, ok := raw.Fields[payloadField]
	if !ok || value.StringValue == "" {
		return nil, fmt.Errorf("remote document %q has no payload field", raw.Name)
	}

	var doc sync.Document
	if err := json.Unmarshal([]byte(value.StringValue), &doc); err != nil {
		return nil, fmt.Errorf("unable to decode remote document %q: %w", raw.Name, err)
	}
	return &doc, nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
