package engine

import (
	"container/heap"
	"sort"
	"time"

	"github.com/DivyanshGoel20/token-strike/pkg/logger"
)

// TimerID - дескриптор таймера в планировщике. 0 = нет таймера.
type TimerID = uint64

// Scheduler - очередь отложенных и периодических задач одной сессии.
// Живёт в потоке сессии, блокировок нет.
type Scheduler struct {
	queue   TimerQueue
	itemMap map[TimerID]*TimerItem

	nowMs   int64
	nextID  TimerID
	nextSeq uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		queue:   make(TimerQueue, 0),
		itemMap: make(map[TimerID]*TimerItem),
	}
}

// Now - текущее время планировщика. Внутри колбэка это его плановое время.
func (s *Scheduler) Now() int64 {
	return s.nowMs
}

func toMs(d time.Duration) int64 {
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return ms
}

// Every регистрирует периодическую задачу. Первый запуск через interval.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) TimerID {
	ms := toMs(interval)
	return s.add(name, s.nowMs+ms, ms, fn)
}

// After регистрирует одноразовую задачу
func (s *Scheduler) After(name string, delay time.Duration, fn func()) TimerID {
	ms := delay.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return s.add(name, s.nowMs+ms, 0, fn)
}

func (s *Scheduler) add(name string, due, interval int64, fn func()) TimerID {
	s.nextID++
	s.nextSeq++
	item := &TimerItem{
		ID:       s.nextID,
		Name:     name,
		DueMs:    due,
		Seq:      s.nextSeq,
		Interval: interval,
		Fn:       fn,
	}
	heap.Push(&s.queue, item)
	s.itemMap[item.ID] = item

	logger.Log.WithField("timer", name).WithField("due_ms", due).Trace("Timer registered")
	return item.ID
}

// Cancel снимает задачу. Отменённая задача никогда не сработает.
func (s *Scheduler) Cancel(id TimerID) bool {
	item, ok := s.itemMap[id]
	if !ok {
		return false
	}
	delete(s.itemMap, id)
	if item.Index >= 0 {
		heap.Remove(&s.queue, item.Index)
	}
	return true
}

// Reschedule меняет период задачи; следующий запуск через новый interval от текущего момента.
func (s *Scheduler) Reschedule(id TimerID, interval time.Duration) bool {
	item, ok := s.itemMap[id]
	if !ok {
		return false
	}
	ms := toMs(interval)
	item.Interval = ms

	if item.Index < 0 {
		// Задача сейчас выполняется: Advance перевзведёт её от DueMs
		item.DueMs = s.nowMs
		return true
	}
	s.nextSeq++
	s.queue.Update(item, s.nowMs+ms, s.nextSeq)
	return true
}

// CancelAll снимает все задачи (конец сессии)
func (s *Scheduler) CancelAll() {
	for _, item := range s.queue {
		item.Index = -1
	}
	s.queue = s.queue[:0]
	s.itemMap = make(map[TimerID]*TimerItem)
}

// Advance выполняет все задачи со сроком <= nowMs в порядке (срок, регистрация).
// Периодические задачи перевзводятся от своего срока, а не от nowMs.
func (s *Scheduler) Advance(nowMs int64) int {
	fired := 0
	for s.queue.Len() > 0 {
		top := s.queue[0]
		if top.DueMs > nowMs {
			break
		}
		heap.Pop(&s.queue)
		s.nowMs = top.DueMs

		if top.Interval == 0 {
			delete(s.itemMap, top.ID)
		}

		top.Fn()
		fired++

		// Колбэк мог отменить сам себя или всё сразу
		if _, alive := s.itemMap[top.ID]; !alive || top.Interval == 0 {
			continue
		}
		s.nextSeq++
		top.DueMs += top.Interval
		top.Seq = s.nextSeq
		heap.Push(&s.queue, top)
	}
	if nowMs > s.nowMs {
		s.nowMs = nowMs
	}
	return fired
}

// Len - количество активных задач
func (s *Scheduler) Len() int {
	return len(s.itemMap)
}

// Has - зарегистрирована ли задача
func (s *Scheduler) Has(id TimerID) bool {
	_, ok := s.itemMap[id]
	return ok
}

// DebugDump возвращает снимок очереди для отладки
func (s *Scheduler) DebugDump() []map[string]interface{} {
	// Инициализируем как пустой слайс, а не nil. Тогда в JSON это будет "[]", а не "null"
	result := make([]map[string]interface{}, 0, len(s.queue))

	items := make([]*TimerItem, len(s.queue))
	copy(items, s.queue)
	sort.Slice(items, func(i, j int) bool { return s.queue.lessItems(items[i], items[j]) })

	for _, item := range items {
		result = append(result, map[string]interface{}{
			"id":       item.ID,
			"name":     item.Name,
			"dueMs":    item.DueMs,
			"interval": item.Interval,
			"index":    item.Index,
		})
	}
	return result
}
