package domain

// TakeHit снимает одну единицу здоровья. Возвращает true, если игрок погиб.
// Здоровье никогда не уходит ниже нуля.
func (p *Player) TakeHit() bool {
	if p.Health <= 0 {
		return false
	}
	p.Health--
	return p.Health <= 0
}

// Heal лечит, но не выше MaxHealth
func (p *Player) Heal(amount int) {
	if p.Health <= 0 || amount <= 0 {
		return // Мертвых не лечим
	}
	p.Health += amount
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}

// GrowMaxHealth увеличивает максимум здоровья
func (p *Player) GrowMaxHealth(amount int) {
	if amount <= 0 {
		return
	}
	p.MaxHealth += amount
}

// IsDead - здоровье кончилось
func (p *Player) IsDead() bool {
	return p.Health <= 0
}
