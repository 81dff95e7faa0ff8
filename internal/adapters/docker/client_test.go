package docker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docker/docker/api/types/events"
)

func TestConvertStream_ForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs := make(chan events.Message, 1)
	errs := make(chan error)
	stream := convertStream(ctx, msgs, errs)

	msgs <- events.Message{
		Type:   events.ContainerEventType,
		Action: events.ActionStart,
		Actor:  events.Actor{ID: "abc123"},
	}

	select {
	case ev := <-stream.Events:
		if ev.Type != "container" || ev.Action != "start" || ev.Actor != "abc123" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}
}

func TestConvertStream_ForwardsErrorAndCloses(t *testing.T) {
	msgs := make(chan events.Message)
	errs := make(chan error, 1)
	stream := convertStream(context.Background(), msgs, errs)

	boom := errors.New("unexpected EOF")
	errs <- boom

	select {
	case err := <-stream.Err:
		if !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("error not forwarded")
	}

	select {
	case _, ok := <-stream.Events:
		if ok {
			t.Error("events channel should be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestConvertStream_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream := convertStream(ctx, make(chan events.Message), make(chan error))

	cancel()
	select {
	case _, ok := <-stream.Events:
		if ok {
			t.Error("unexpected event")
		}
	case <-time.After(time.Second):
		t.Fatal("stream did not stop on cancel")
	}
}

func TestClient_ConnectIsLazy(t *testing.T) {
	c := NewClient("unix:///nonexistent/docker.sock")
	conn, err := c.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := conn.Version(ctx); err == nil {
		t.Error("Version() against a missing socket should fail")
	}
}
