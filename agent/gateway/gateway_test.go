package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/pattarapon/agentrun/agent/contract"
)

type fakeChatModel struct {
	responses []*schema.Message
	err       error
	idx       int
	received  [][]*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.received = append(f.received, input)
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func TestSendReturnsModelContent(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{responses: []*schema.Message{{Role: schema.Assistant, Content: "14"}}}
	gw, err := New(context.Background(), fake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := gw.Send(context.Background(), "You are a planner.", "计算 2 + 3 * 4")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got != "14" {
		t.Fatalf("unexpected response: %q", got)
	}

	if len(fake.received) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(fake.received))
	}
	messages := fake.received[0]
	if len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(messages))
	}
	if messages[0].Role != schema.System || !strings.Contains(messages[0].Content, "planner") {
		t.Fatalf("unexpected system message: %#v", messages[0])
	}
	if messages[1].Role != schema.User || messages[1].Content != "计算 2 + 3 * 4" {
		t.Fatalf("unexpected user message: %#v", messages[1])
	}
}

func TestSendWrapsModelFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{err: errors.New("connection refused")}
	gw, err := New(context.Background(), fake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = gw.Send(context.Background(), "system", "user")
	if !errors.Is(err, contractx.ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestSendRejectsEmptyContent(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{responses: []*schema.Message{{Role: schema.Assistant, Content: "   "}}}
	gw, err := New(context.Background(), fake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = gw.Send(context.Background(), "system", "user")
	if !errors.Is(err, contractx.ErrGateway) {
		t.Fatalf("expected ErrGateway for blank content, got %v", err)
	}
}

func TestNewRequiresChatModel(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), nil)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
