package chat

import (
	"testing"
	"time"

	"github.com/ashureev/panelboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "hello", want: "Echo (from private EC2): HELLO"},
		{in: "Mixed Case 123", want: "Echo (from private EC2): MIXED CASE 123"},
		{in: "straße", want: "Echo (from private EC2): STRASSE"},
		{in: "ǆ", want: "Echo (from private EC2): Ǆ"},
		{in: "**bold**", want: "Echo (from private EC2): **BOLD**"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Respond(tt.in))
		})
	}
}

func TestRespond_Deterministic(t *testing.T) {
	assert.Equal(t, Respond("same input"), Respond("same input"))
}

func TestSeed(t *testing.T) {
	now := time.Now()

	seeded := Seed(nil, now)
	require.Len(t, seeded, 1)
	assert.Equal(t, domain.RoleAssistant, seeded[0].Role)
	assert.Equal(t, Greeting, seeded[0].Content)

	started := domain.ChatHistory{}.Append(seeded...)
	assert.Empty(t, Seed(started, now))
}

func TestExchange(t *testing.T) {
	msgs, err := Exchange("hi there", time.Now())
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi there", msgs[0].Content)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Echo (from private EC2): HI THERE", msgs[1].Content)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
}

func TestExchange_Blank(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := Exchange(in, time.Now())
		assert.ErrorIs(t, err, ErrBlankInput)
	}
}

func TestMessageNodes(t *testing.T) {
	msgs, err := Exchange("x", time.Now())
	require.NoError(t, err)

	nodes := MessageNodes(msgs)
	require.Len(t, nodes, 2)
	assert.Equal(t, "user", nodes[0].Message.Role)
	assert.Equal(t, msgs[1].ID, nodes[1].Message.ID)
}
