package browser

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReturnsCallerCancellation(t *testing.T) {
	p := &page{ctx: context.Background()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.run(ctx, chromedp.ActionFunc(func(context.Context) error { return nil }))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReturnsCallerDeadline(t *testing.T) {
	p := &page{ctx: context.Background()}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	err := p.run(ctx, chromedp.ActionFunc(func(context.Context) error { return nil }))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClickScriptWaitsForVisibility(t *testing.T) {
	script := clickScript(`button[data-testid="Card.Book"]`, 2)

	require.Contains(t, script, fmt.Sprintf("%q", `button[data-testid="Card.Book"]`))
	require.Contains(t, script, "[2]")

	// scroll, visibility poll, then click, in that order
	scroll := strings.Index(script, "scrollIntoView")
	poll := strings.Index(script, "getBoundingClientRect")
	click := strings.Index(script, "el.click()")
	require.GreaterOrEqual(t, scroll, 0)
	require.GreaterOrEqual(t, poll, 0)
	require.GreaterOrEqual(t, click, 0)
	assert.Less(t, scroll, poll)
	assert.Less(t, poll, click)
}
