package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotID_Deterministic(t *testing.T) {
	a := SnapshotID("tpl-1", "2024-05")
	b := SnapshotID("tpl-1", "2024-05")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, SnapshotID("tpl-1", "2024-06"))
	assert.NotEqual(t, a, SnapshotID("tpl-2", "2024-05"))
}

func TestGenerateUUIDV7_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateUUIDV7(), GenerateUUIDV7())
}
