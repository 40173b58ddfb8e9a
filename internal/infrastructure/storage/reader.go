package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	return LoadReplay(path)
}

// LoadReplay читает реплей с диска (нужен headless-режиму без ReplayService)
func LoadReplay(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(bufio.NewReader(f))
}

func readBinary(r io.Reader) (*domain.ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 && header.Version != Version2 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version2)
	}
	if header.FrameCount < 0 {
		return nil, fmt.Errorf("invalid frame count: %d", header.FrameCount)
	}

	idBuf := make([]byte, header.SessionIDLen)
	if _, err := io.ReadFull(r, idBuf); err != nil {
		return nil, fmt.Errorf("failed to read session id: %w", err)
	}

	session := &domain.ReplaySession{
		SessionID:    string(idBuf),
		Seed:         header.Seed,
		InitialAmmo:  int(header.InitialAmmo),
		BulletDamage: header.BulletDamage,
		TickMs:       int(header.TickMs),
		Timestamp:    header.Timestamp,
		Tags:         make([]string, 0, header.TagCount),
		Frames:       make([]domain.ReplayFrame, 0, header.FrameCount),
	}

	// 2. Теги
	for i := 0; i < int(header.TagCount); i++ {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("failed to read tag %d: %w", i, err)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("failed to read tag %d: %w", i, err)
		}
		session.Tags = append(session.Tags, string(buf))
	}

	// 3. Кадры
	for i := 0; i < int(header.FrameCount); i++ {
		var rec FrameRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("failed to read frame %d: %w", i, err)
		}
		session.Frames = append(session.Frames, domain.ReplayFrame{
			Tick:  rec.Tick,
			Input: domain.Vec2{X: rec.Dx, Y: rec.Dy},
		})
	}

	if header.Version == Version1 {
		return session, nil
	}

	// 4. Улучшения, выданные командой
	var grantCount int32
	if err := binary.Read(r, binary.LittleEndian, &grantCount); err != nil {
		return nil, fmt.Errorf("failed to read grant count: %w", err)
	}
	if grantCount < 0 {
		return nil, fmt.Errorf("invalid grant count: %d", grantCount)
	}
	for i := 0; i < int(grantCount); i++ {
		var rec GrantRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("failed to read grant %d: %w", i, err)
		}
		kind := domain.UpgradeKind(rec.Upgrade)
		if kind.String() == "UNKNOWN" {
			return nil, fmt.Errorf("grant %d: unknown upgrade %d", i, rec.Upgrade)
		}
		session.Grants = append(session.Grants, domain.ReplayGrant{Tick: rec.Tick, Upgrade: kind})
	}

	return session, nil
}
