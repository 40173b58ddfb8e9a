package engine

import (
	"container/heap"
)

// TimerItem обертка для элемента очереди таймеров
type TimerItem struct {
	ID       uint64
	Name     string
	DueMs    int64 // Когда сработать (мс от старта сессии). Чем меньше, тем раньше.
	Seq      uint64
	Interval int64 // 0 = одноразовый
	Fn       func()
	Index    int // Индекс в куче (нужен для update). -1 = не в куче.
}

// TimerQueue реализует heap.Interface и хранит TimerItems.
// При равном DueMs раньше срабатывает тот, кто раньше встал в очередь.
type TimerQueue []*TimerItem

func (pq TimerQueue) Len() int { return len(pq) }

func (pq TimerQueue) Less(i, j int) bool {
	return pq.lessItems(pq[i], pq[j])
}

func (pq TimerQueue) lessItems(a, b *TimerItem) bool {
	if a.DueMs != b.DueMs {
		return a.DueMs < b.DueMs
	}
	return a.Seq < b.Seq
}

func (pq TimerQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *TimerQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*TimerItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *TimerQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// Update изменяет срок и порядковый номер элемента в очереди
func (pq *TimerQueue) Update(item *TimerItem, dueMs int64, seq uint64) {
	item.DueMs = dueMs
	item.Seq = seq
	heap.Fix(pq, item.Index)
}
