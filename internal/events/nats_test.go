package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	require.NoError(t, err, "starting embedded NATS")
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestNATSPublisherPublishesJSON(t *testing.T) {
	url := startTestNATS(t)

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	msgs := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("forms.>", msgs)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, nc.Flush())

	pub, err := NewNATSPublisher(url)
	require.NoError(t, err)
	defer pub.Close()

	event := FormSubmitted{FormID: "f-1", Type: "guias", RecordID: "99", Succeeded: 3, Failed: 1}
	require.NoError(t, pub.Publish(context.Background(), TopicFormSubmitted, event))

	select {
	case msg := <-msgs:
		assert.Equal(t, TopicFormSubmitted, msg.Subject)
		var got FormSubmitted
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "f-1", got.FormID)
		assert.Equal(t, 3, got.Succeeded)
		assert.Equal(t, 1, got.Failed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestNATSPublisherConnectFailure(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", nats.MaxReconnects(0), nats.Timeout(200*time.Millisecond))
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	require.NoError(t, rec.Publish(context.Background(), TopicFormCreated, FormCreated{ItemID: "1"}))
	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, TopicFormCreated, events[0].Topic)
}
