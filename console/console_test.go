package console

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSink struct {
	mock.Mock
}

func (sink *mockSink) SetKeyPressed(key int) { sink.Called(key) }

func (sink *mockSink) SetCharPressed(char rune) { sink.Called(char) }

func TestReceive(t *testing.T) {
	assert := assert.New(t)

	con := &Console{Input: strings.NewReader("añ\n")}
	assert.Equal([]rune{'a', 'ñ', '\n'}, slices.Collect(con.Receive()))
	assert.Equal('\n', con.LastInput)
	assert.Equal(3, con.ReadCount)

	con = &Console{Input: strings.NewReader("xyz")}
	for r := range con.Receive() {
		assert.Equal('x', r)
		break
	}
	assert.Equal(1, con.ReadCount)
}

func TestFeed(t *testing.T) {
	assert := assert.New(t)

	sink := &mockSink{}
	sink.On("SetCharPressed", 'h').Return().Once()
	sink.On("SetKeyPressed", int('h')).Return().Once()
	sink.On("SetCharPressed", 'i').Return().Once()
	sink.On("SetKeyPressed", int('i')).Return().Once()

	con := &Console{Input: strings.NewReader("hi"), Sink: sink}
	assert.NoError(con.Feed())
	sink.AssertExpectations(t)

	con = &Console{Input: strings.NewReader("hi")}
	assert.Error(con.Feed())
}
