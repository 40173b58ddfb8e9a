package api

import (
	"errors"
	"fmt"
	"math"
)

// MaxTags - ограничение на размер списка визуальных ключей
const MaxTags = 256

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p StartPayload) Validate() error {
	if p.Ammo != nil && *p.Ammo < 0 {
		return errors.New("ammo cannot be negative")
	}
	if p.Damage != nil && (math.IsNaN(*p.Damage) || math.IsInf(*p.Damage, 0)) {
		return errors.New("damage must be a finite number")
	}
	if len(p.Tags) > MaxTags {
		return fmt.Errorf("too many tags: %d > %d", len(p.Tags), MaxTags)
	}
	return nil
}

func (p InputPayload) Validate() error {
	for _, v := range []float64{p.Dx, p.Dy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("input vector must be finite")
		}
	}
	return nil
}
