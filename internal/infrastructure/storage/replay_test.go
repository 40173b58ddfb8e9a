package storage

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/DivyanshGoel20/token-strike/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReplay() *domain.ReplaySession {
	return &domain.ReplaySession{
		SessionID:    "3f1c2a9e-0000-4000-8000-000000000001",
		Seed:         4242,
		InitialAmmo:  30,
		BulletDamage: 2.5,
		TickMs:       16,
		Timestamp:    1760000000,
		Tags:         []string{"gold", "ключ", ""},
		Frames: []domain.ReplayFrame{
			{Tick: 1, Input: domain.Vec2{X: 1}},
			{Tick: 40, Input: domain.Vec2{X: 0.70710678118, Y: -0.70710678118}},
			{Tick: 900, Input: domain.Vec2{}},
		},
	}
}

func TestReplayBinary_WriteRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBinary(&buf, sampleReplay()))

	got, err := readBinary(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleReplay(), got)
}

func TestReplayBinary_Grants(t *testing.T) {
	src := sampleReplay()
	src.Grants = []domain.ReplayGrant{
		{Tick: 0, Upgrade: domain.UpgradeReload},
		{Tick: 41, Upgrade: domain.UpgradeMultishot},
	}

	var buf bytes.Buffer
	require.NoError(t, writeBinary(&buf, src))
	data := buf.Bytes()

	got, err := readBinary(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, src.Grants, got.Grants)

	// Последний байт - вид улучшения
	bad := append([]byte{}, data...)
	bad[len(bad)-1] = 200
	_, err = readBinary(bytes.NewReader(bad))
	assert.ErrorContains(t, err, "unknown upgrade")
}

func TestReplayBinary_ReadsVersion1(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBinary(&buf, sampleReplay()))
	data := buf.Bytes()

	// v1 - тот же файл без секции улучшений
	v1 := append([]byte{}, data[:len(data)-4]...)
	v1[4] = byte(Version1)
	got, err := readBinary(bytes.NewReader(v1))
	require.NoError(t, err)
	assert.Equal(t, sampleReplay(), got)
}

func TestReplayBinary_RejectsForeignFiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBinary(&buf, sampleReplay()))
	data := buf.Bytes()

	bad := append([]byte{}, data...)
	copy(bad, "CDRP")
	_, err := readBinary(bytes.NewReader(bad))
	assert.ErrorContains(t, err, "invalid magic")

	bad = append([]byte{}, data...)
	bad[4] = 9
	_, err = readBinary(bytes.NewReader(bad))
	assert.ErrorContains(t, err, "unsupported version")

	_, err = readBinary(bytes.NewReader(data[:len(data)-5]))
	assert.Error(t, err, "truncated frame")
}

func TestReplayService_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "replays")
	svc, err := NewReplayService(dir)
	require.NoError(t, err)

	path, err := svc.Save(sampleReplay())
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "replay_4242_3f1c2a9e_1760000000.tsrp", filepath.Base(path))

	got, err := svc.Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleReplay(), got)

	_, err = LoadReplay(filepath.Join(dir, "missing.tsrp"))
	assert.Error(t, err)
}
