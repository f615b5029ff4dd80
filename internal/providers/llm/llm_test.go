package llm

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// blockingProvider hangs until its context is cancelled, like a
// black-holed connection.
type blockingProvider struct {
	name string
}

func (p blockingProvider) Name() string { return p.name }

func (p blockingProvider) Complete(ctx context.Context, _ Request) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type staticProvider struct {
	name string
	out  string
}

func (p staticProvider) Name() string { return p.name }

func (p staticProvider) Complete(context.Context, Request) (string, error) {
	return p.out, nil
}

func TestTimeoutProvider_BoundsAHungCall(t *testing.T) {
	p := timeoutProvider{Provider: blockingProvider{name: "hung"}, timeout: 20 * time.Millisecond}

	start := time.Now()
	_, err := p.Complete(context.Background(), Request{User: "hi"})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestChain_FallsThroughWhenAProviderTimesOut(t *testing.T) {
	chain := &Chain{
		providers: []Provider{
			timeoutProvider{Provider: blockingProvider{name: "hung"}, timeout: 20 * time.Millisecond},
			staticProvider{name: "backup", out: "answer"},
		},
		logger: logrus.New(),
	}

	out, err := chain.Complete(context.Background(), Request{User: "hi"})

	require.NoError(t, err)
	require.Equal(t, "answer", out)
}

func TestChain_EmptyReturnsErrNoProvider(t *testing.T) {
	chain := &Chain{}

	_, err := chain.Complete(context.Background(), Request{User: "hi"})
	require.ErrorIs(t, err, ErrNoProvider)
}
