package domain

// ReplayFrame - ввод игрока на одном тике
type ReplayFrame struct {
	Tick  int64 `json:"tick"`
	Input Vec2  `json:"input"`
}

// ReplayGrant - улучшение, выданное командой между тиками Tick и Tick+1
type ReplayGrant struct {
	Tick    int64       `json:"tick"`
	Upgrade UpgradeKind `json:"upgrade"`
}

// ReplaySession - полная запись партии: параметры старта + лента ввода.
// Вместе с сидом этого достаточно, чтобы пересчитать партию заново.
type ReplaySession struct {
	SessionID    string        `json:"sessionId"`
	Seed         int64         `json:"seed"`
	InitialAmmo  int           `json:"initialAmmo"`
	BulletDamage float64       `json:"bulletDamage"`
	TickMs       int           `json:"tickMs"`
	Timestamp    int64         `json:"timestamp"`
	Tags         []string      `json:"tags"`
	Frames       []ReplayFrame `json:"frames"`
	Grants       []ReplayGrant `json:"grants,omitempty"`
}

// Record добавляет кадр, если ввод изменился с прошлого кадра
func (r *ReplaySession) Record(tick int64, input Vec2) {
	if n := len(r.Frames); n > 0 && r.Frames[n-1].Input == input {
		return
	}
	r.Frames = append(r.Frames, ReplayFrame{Tick: tick, Input: input})
}

// RecordGrant запоминает выданное вне игры улучшение
func (r *ReplaySession) RecordGrant(tick int64, kind UpgradeKind) {
	r.Grants = append(r.Grants, ReplayGrant{Tick: tick, Upgrade: kind})
}

// InputAt возвращает ввод, действовавший на тике tick
func (r *ReplaySession) InputAt(tick int64) Vec2 {
	var in Vec2
	for _, f := range r.Frames {
		if f.Tick > tick {
			break
		}
		in = f.Input
	}
	return in
}
