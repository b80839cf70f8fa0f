package verdict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("complete body maps one to one", func(t *testing.T) {
		v, err := Decode([]byte(`{
			"action": "challenge",
			"user_id": "12345",
			"risk_policy": {"id": "pol-1", "revision_id": "rev-2", "name": "Block TOR", "type": "bot"}
		}`))
		require.NoError(t, err)

		assert.Equal(t, ActionChallenge, v.Action)
		assert.Equal(t, "12345", v.UserID)
		assert.False(t, v.Failover)
		assert.Empty(t, v.FailoverReason)
		require.NotNil(t, v.RiskPolicy)
		assert.Equal(t, "pol-1", v.RiskPolicy.ID)
		assert.Equal(t, "Block TOR", v.RiskPolicy.Name)
	})

	t.Run("risk policy is optional", func(t *testing.T) {
		v, err := Decode([]byte(`{"action":"allow","user_id":"u"}`))
		require.NoError(t, err)
		assert.Nil(t, v.RiskPolicy)
	})

	cases := map[string]string{
		"malformed json":  `{"action":`,
		"missing action":  `{"user_id":"u"}`,
		"null action":     `{"action":null,"user_id":"u"}`,
		"missing user id": `{"action":"deny"}`,
		"unknown action":  `{"action":"review","user_id":"u"}`,
		"empty body":      ``,
	}
	for name, body := range cases {
		t.Run(name+" is a decode error", func(t *testing.T) {
			_, err := Decode([]byte(body))
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, ReasonIllegalJSON, de.Reason)
			assert.ErrorIs(t, err, ErrIllegalJSON)
		})
	}
}

func TestOnFailure(t *testing.T) {
	s := Strategy{DefaultAction: ActionChallenge}

	v := OnFailure("timeout", "user-1", s)
	assert.True(t, v.Failover)
	assert.Equal(t, ActionChallenge, v.Action)
	assert.Equal(t, "timeout", v.FailoverReason)
	assert.Equal(t, "user-1", v.UserID)

	empty := OnFailure("", "user-1", s)
	assert.Equal(t, ReasonUnknown, empty.FailoverReason)
}

func TestShouldThrow(t *testing.T) {
	assert.False(t, ShouldThrow(DefaultStrategy()))
	assert.True(t, ShouldThrow(Strategy{DefaultAction: ActionDeny, ThrowOnFailure: true}))
}

func TestParseAction(t *testing.T) {
	for _, in := range []string{"ALLOW", "allow", " Allow "} {
		a, err := ParseAction(in)
		require.NoError(t, err)
		assert.Equal(t, ActionAllow, a)
	}
	_, err := ParseAction("maybe")
	assert.Error(t, err)
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy(ActionDeny, true)
	require.NoError(t, err)
	assert.Equal(t, ActionDeny, s.DefaultAction)
	assert.True(t, s.ThrowOnFailure)

	_, err = NewStrategy("", false)
	assert.Error(t, err)
}
