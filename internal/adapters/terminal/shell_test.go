package terminal

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/folio-agent/internal/adapters/llm"
	"github.com/PabloGalante/folio-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/folio-agent/internal/app/chat"
	"github.com/PabloGalante/folio-agent/internal/app/conversation"
	"github.com/PabloGalante/folio-agent/internal/app/rag"
)

func newService(client *llm.ScriptedClient) *conversation.Service {
	var pipeline chat.Pipeline
	if client != nil {
		pipeline = rag.NewPipeline(client, "David is a 3D artist.", rag.Options{
			RetrievalModel:  "r",
			GenerationModel: "g",
			Language:        "English",
		})
	}
	return conversation.NewService(pipeline, memory.NewSessionStore(5), time.Minute)
}

func TestShellAnswersUntilQuit(t *testing.T) {
	client := llm.NewScriptedClient(
		llm.Reply{Text: "David is a 3D artist."},
		llm.Reply{Text: "A 3D artist."},
	)
	svc := newService(client)

	in := strings.NewReader("\nWhat does he do?\n/quit\nignored\n")
	var out bytes.Buffer

	err := NewShell(svc, in, &out, strings.ToUpper).Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "A 3D ARTIST.")
	assert.Len(t, client.Calls(), 2)
}

func TestShellDisabledChat(t *testing.T) {
	svc := newService(nil)

	in := strings.NewReader("hello\n")
	var out bytes.Buffer

	err := NewShell(svc, in, &out, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), chat.ConfigErrorMessage)
	assert.Contains(t, out.String(), "Chat is unavailable.")
}

func TestShellInterruptDoesNotWaitForCycle(t *testing.T) {
	client := llm.NewScriptedClient(llm.Reply{Text: "NONE", Wait: make(chan struct{})})
	svc := newService(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in, inWriter := io.Pipe()
	defer inWriter.Close()

	done := make(chan error, 1)
	go func() {
		done <- NewShell(svc, in, io.Discard, nil).Run(ctx)
	}()

	_, err := io.WriteString(inWriter, "What does he do?\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(client.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("shell kept waiting for the response cycle after interrupt")
	}
}
