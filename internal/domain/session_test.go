package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Flow(t *testing.T) {
	s := NewSession("k", "250788000001", time.Now())
	assert.Equal(t, FlowNone, s.Flow.Kind)
	assert.False(t, s.Registered)

	s.StartFlow(FlowRegistration)
	assert.Equal(t, Flow{Kind: FlowRegistration, Step: 1, Data: map[string]string{}}, s.Flow)

	s.Set(KeyFullName, "Jane")
	s.Advance()
	assert.Equal(t, 2, s.Flow.Step)
	assert.Equal(t, "Jane", s.Get(KeyFullName))

	// starting another flow drops the previous scratch data
	s.StartFlow(FlowPayment)
	assert.Equal(t, FlowPayment, s.Flow.Kind)
	assert.Equal(t, 1, s.Flow.Step)
	assert.Empty(t, s.Get(KeyFullName))

	s.EndFlow()
	assert.Equal(t, FlowNone, s.Flow.Kind)
	assert.Equal(t, 0, s.Flow.Step)
	assert.Empty(t, s.Get(KeyProductName))
}

func TestSession_Bind(t *testing.T) {
	s := NewSession("k", "250788000001", time.Now())
	assert.Equal(t, int64(0), s.TraderID())

	s.Bind(&Trader{ID: 7})
	assert.True(t, s.Registered)
	assert.Equal(t, int64(7), s.TraderID())

	s.Bind(nil)
	assert.False(t, s.Registered)
}

func TestSession_Clone(t *testing.T) {
	s := NewSession("k", "250788000001", time.Now())
	s.Bind(&Trader{ID: 7, FullName: "Jane"})
	s.StartFlow(FlowRegistration)
	s.Set(KeyEmail, "jane@x.com")
	s.Flow.Options = []Option{{ID: 1, Name: "Kigali City"}}

	c := s.Clone()
	c.Trader.FullName = "Changed"
	c.Set(KeyEmail, "other@x.com")
	c.Flow.Options[0].Name = "Changed"

	assert.Equal(t, "Jane", s.Trader.FullName)
	assert.Equal(t, "jane@x.com", s.Get(KeyEmail))
	assert.Equal(t, "Kigali City", s.Flow.Options[0].Name)
}

func TestSession_SetWithoutFlow(t *testing.T) {
	s := &Session{}
	s.Set(KeyProductName, "Widget")
	assert.Equal(t, "Widget", s.Get(KeyProductName))
}
