package domain

import (
	"fmt"
	"strconv"
)

// EntityKind - тип сущности, зашитый в EntityID
type EntityKind uint8

const (
	KindNone EntityKind = iota
	KindEnemy
	KindProjectile
	KindOre
)

var kindToString = map[EntityKind]string{
	KindEnemy:      "ENEMY",
	KindProjectile: "PROJECTILE",
	KindOre:        "ORE",
}

func (k EntityKind) String() string {
	if s, ok := kindToString[k]; ok {
		return s
	}
	return "NONE"
}

// EntityID - упакованный дескриптор слота в арене сущностей.
//
// Формат битов (от старших к младшим):
//
//	[ reserved (8) | Kind (8) | Generation (16) | Index (32) ]
//
// Generation растёт при каждом переиспользовании слота, поэтому
// устаревший ID после смерти сущности никогда не совпадёт с новым.
type EntityID uint64

// NilEntityID - отсутствие сущности
const NilEntityID EntityID = 0

const (
	bitsIndex = 32
	bitsGen   = 16
	bitsKind  = 8

	shiftGen  = bitsIndex
	shiftKind = bitsIndex + bitsGen

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskKind  = (1 << bitsKind) - 1
)

// PackEntityID собирает ID из составных частей. Диапазоны не проверяются.
func PackEntityID(kind EntityKind, gen uint16, index uint32) EntityID {
	return EntityID(
		(uint64(kind)&maskKind)<<shiftKind |
			(uint64(gen)&maskGen)<<shiftGen |
			uint64(index),
	)
}

func (id EntityID) Kind() EntityKind {
	return EntityKind((id >> shiftKind) & maskKind)
}

func (id EntityID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

func (id EntityID) Index() uint32 {
	return uint32(id & maskIndex)
}

func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// String для логов: [KIND:gen:idx]
func (id EntityID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[%s:%d:%d]", id.Kind(), id.Generation(), id.Index())
}

// MarshalJSON сериализует ID в строку: JS теряет точность на uint64.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON принимает и строку, и число.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*id = NilEntityID
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entity id %q: %w", s, err)
	}
	*id = EntityID(v)
	return nil
}
