package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MessageExcerpt(t *testing.T) {
	short := Message{Body: "just a few words"}
	assert.Equal(t, "just a few words", short.Excerpt())

	long := Message{Body: "one two three four five six seven eight nine ten eleven twelve"}
	assert.Equal(t, "one two three four five six seven eight nine ten...", long.Excerpt())

	empty := Message{}
	assert.Equal(t, "", empty.Excerpt())
}
