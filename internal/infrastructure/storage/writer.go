package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

const (
	MagicHeader string = `TSRP` // 4 байта
	Version1    uint32 = 1      // без выданных улучшений
	Version2    uint32 = 2      // + секция улучшений после кадров
)

// ReplayFileHeader — это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type ReplayFileHeader struct {
	Magic        [4]byte // 4 байта
	Version      uint32  // 4 байта
	Seed         int64   // 8 байт
	Timestamp    int64   // 8 байт
	BulletDamage float64 // 8 байт
	InitialAmmo  int32   // 4 байта
	TickMs       int32   // 4 байта
	SessionIDLen uint16  // 2 байта
	TagCount     uint16  // 2 байта
	FrameCount   int32   // 4 байта
}

// FrameRecord — один кадр ленты ввода. float64, чтобы пересчёт партии совпадал бит в бит.
type FrameRecord struct {
	Tick int64   // 8
	Dx   float64 // 8
	Dy   float64 // 8
}

// GrantRecord — улучшение, выданное командой
type GrantRecord struct {
	Tick    int64 // 8
	Upgrade uint8 // 1
}

type ReplayService struct {
	SaveDir string
}

func NewReplayService(dir string) (*ReplayService, error) {
	// Создаем папку если нет
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create replay dir: %w", err)
	}
	return &ReplayService{SaveDir: dir}, nil
}

// Save пишет реплей в SaveDir и возвращает путь к файлу
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	short := session.SessionID
	if len(short) > 8 {
		short = short[:8]
	}
	filename := fmt.Sprintf("replay_%d_%s_%d.tsrp", session.Seed, short, session.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeBinary(bw, session); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return path, nil
}

func writeBinary(w io.Writer, s *domain.ReplaySession) error {
	idBytes := []byte(s.SessionID)
	if len(idBytes) > math.MaxUint16 {
		return fmt.Errorf("session id too long: %d", len(idBytes))
	}
	if len(s.Tags) > math.MaxUint16 {
		return fmt.Errorf("too many tags: %d", len(s.Tags))
	}
	if len(s.Frames) > math.MaxInt32 {
		return fmt.Errorf("too many frames: %d", len(s.Frames))
	}
	if len(s.Grants) > math.MaxInt32 {
		return fmt.Errorf("too many grants: %d", len(s.Grants))
	}

	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := ReplayFileHeader{
		Version:      Version2,
		Seed:         s.Seed,
		Timestamp:    s.Timestamp,
		BulletDamage: s.BulletDamage,
		InitialAmmo:  int32(s.InitialAmmo),
		TickMs:       int32(s.TickMs),
		SessionIDLen: uint16(len(idBytes)),
		TagCount:     uint16(len(s.Tags)),
		FrameCount:   int32(len(s.Frames)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(idBytes); err != nil {
		return err
	}

	// 2. Теги: uint16 длина + байты
	for _, tag := range s.Tags {
		b := []byte(tag)
		if len(b) > math.MaxUint16 {
			return fmt.Errorf("tag too long: %d", len(b))
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(b))); err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}

	// 3. Кадры ввода
	for _, f := range s.Frames {
		rec := FrameRecord{Tick: f.Tick, Dx: f.Input.X, Dy: f.Input.Y}
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return err
		}
	}

	// 4. Выданные улучшения: int32 количество + записи
	if err := binary.Write(w, binary.LittleEndian, int32(len(s.Grants))); err != nil {
		return err
	}
	for _, g := range s.Grants {
		rec := GrantRecord{Tick: g.Tick, Upgrade: uint8(g.Upgrade)}
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return err
		}
	}

	return nil
}
