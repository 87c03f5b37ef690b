// Package employee содержит доменную модель сотрудника ZV Rewards Hub.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package employee

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Points представляет баланс баллов признания сотрудника.
type Points int

// IsValid проверяет, что баланс неотрицательный.
func (p Points) IsValid() bool {
	return p >= 0
}

// Add складывает баллы, не опускаясь ниже нуля.
func (p Points) Add(delta Points) Points {
	result := p + delta
	if result < 0 {
		return 0
	}
	return result
}

// Level представляет уровень сотрудника, вычисляемый из баллов.
type Level int

// PointsPerLevel - сколько баллов нужно на один уровень.
const PointsPerLevel = 500

// CalculateLevel вычисляет уровень на основе баллов.
// Формула: level = points/500 + 1, уровень никогда не хранится отдельно.
func CalculateLevel(p Points) Level {
	if p < 0 {
		return 1
	}
	return Level(int(p)/PointsPerLevel + 1)
}

// KPIKey представляет один из шести фиксированных индикаторов.
type KPIKey string

const (
	// KPIProductivity - продуктивность.
	KPIProductivity KPIKey = "productivity"
	// KPICollaboration - командная работа.
	KPICollaboration KPIKey = "collaboration"
	// KPIWellbeing - благополучие.
	KPIWellbeing KPIKey = "wellbeing"
	// KPIInnovation - инновации.
	KPIInnovation KPIKey = "innovation"
	// KPIAbsenteeism - абсентеизм (меньше = лучше, единственный инвертированный индикатор).
	KPIAbsenteeism KPIKey = "absenteeism"
	// KPICulture - культура.
	KPICulture KPIKey = "culture"
)

// AllKPIKeys возвращает все шесть индикаторов в фиксированном порядке.
func AllKPIKeys() []KPIKey {
	return []KPIKey{
		KPIProductivity,
		KPICollaboration,
		KPIWellbeing,
		KPIInnovation,
		KPIAbsenteeism,
		KPICulture,
	}
}

// IsValid проверяет, что ключ индикатора известен.
func (k KPIKey) IsValid() bool {
	switch k {
	case KPIProductivity, KPICollaboration, KPIWellbeing,
		KPIInnovation, KPIAbsenteeism, KPICulture:
		return true
	default:
		return false
	}
}

// IsInverted возвращает true для индикаторов, где меньшее значение желательно.
func (k KPIKey) IsInverted() bool {
	return k == KPIAbsenteeism
}

// String возвращает строковое представление ключа.
func (k KPIKey) String() string {
	return string(k)
}

// KPIValue представляет значение индикатора в диапазоне [0,100].
type KPIValue int

// KPI value bounds.
const (
	KPIMin KPIValue = 0
	KPIMax KPIValue = 100
)

// IsValid проверяет, что значение в допустимом диапазоне.
func (v KPIValue) IsValid() bool {
	return v >= KPIMin && v <= KPIMax
}

// Adjust применяет дельту с ограничением диапазона [0,100].
// Все мутации индикаторов проходят только через этот метод.
func (v KPIValue) Adjust(delta int) KPIValue {
	result := KPIValue(int(v) + delta)
	if result < KPIMin {
		return KPIMin
	}
	if result > KPIMax {
		return KPIMax
	}
	return result
}

// KPISet представляет полный набор из шести индикаторов.
type KPISet map[KPIKey]KPIValue

// NewKPISet создаёт набор индикаторов со стартовым значением.
func NewKPISet(initial KPIValue) KPISet {
	set := make(KPISet, len(AllKPIKeys()))
	for _, key := range AllKPIKeys() {
		set[key] = initial
	}
	return set
}

// Clone создаёт копию набора.
func (s KPISet) Clone() KPISet {
	clone := make(KPISet, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// IsValid проверяет, что присутствуют все шесть ключей с валидными значениями.
func (s KPISet) IsValid() bool {
	if len(s) != len(AllKPIKeys()) {
		return false
	}
	for _, key := range AllKPIKeys() {
		v, ok := s[key]
		if !ok || !v.IsValid() {
			return false
		}
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGES
// ══════════════════════════════════════════════════════════════════════════════

// BadgeID представляет идентификатор бейджа.
type BadgeID string

const (
	// BadgeInnovator - выдаётся за завершение инновационного челленджа.
	BadgeInnovator BadgeID = "innovator"
	// BadgeConsistency - выдаётся за серию чек-инов от 7 дней.
	BadgeConsistency BadgeID = "consistency"
)

// BadgeDefinition описывает бейдж для каталога.
type BadgeDefinition struct {
	ID          BadgeID
	Name        string
	Description string
	Emoji       string
}

// BadgeDefinitions возвращает все определения бейджей.
func BadgeDefinitions() []BadgeDefinition {
	return []BadgeDefinition{
		{BadgeInnovator, "Инноватор", "Завершён челлендж в категории innovation", "💡"},
		{BadgeConsistency, "Постоянство", "Серия ежедневных чек-инов от 7 дней", "🔥"},
	}
}

// BadgeSet представляет множество полученных бейджей (порядок не важен).
type BadgeSet map[BadgeID]struct{}

// NewBadgeSet создаёт пустое множество бейджей.
func NewBadgeSet(ids ...BadgeID) BadgeSet {
	set := make(BadgeSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has проверяет наличие бейджа.
func (b BadgeSet) Has(id BadgeID) bool {
	_, ok := b[id]
	return ok
}

// Add добавляет бейдж. Возвращает true, если бейдж новый.
func (b BadgeSet) Add(id BadgeID) bool {
	if b.Has(id) {
		return false
	}
	b[id] = struct{}{}
	return true
}

// IDs возвращает идентификаторы бейджей в детерминированном порядке.
func (b BadgeSet) IDs() []BadgeID {
	ids := make([]BadgeID, 0, len(b))
	for _, def := range BadgeDefinitions() {
		if b.Has(def.ID) {
			ids = append(ids, def.ID)
		}
	}
	// Неизвестные каталогу бейджи (например, из импорта) - в конец.
	for id := range b {
		known := false
		for _, def := range BadgeDefinitions() {
			if def.ID == id {
				known = true
				break
			}
		}
		if !known {
			ids = append(ids, id)
		}
	}
	return ids
}

// Clone создаёт копию множества.
func (b BadgeSet) Clone() BadgeSet {
	clone := make(BadgeSet, len(b))
	for id := range b {
		clone[id] = struct{}{}
	}
	return clone
}

// ══════════════════════════════════════════════════════════════════════════════
// KPI HISTORY
// ══════════════════════════════════════════════════════════════════════════════

// KPIHistoryCap - максимальное количество снапшотов в истории.
const KPIHistoryCap = 20

// KPISnapshot представляет слепок всех индикаторов на момент времени.
type KPISnapshot struct {
	// Timestamp - когда сделан снапшот.
	Timestamp time.Time

	// Values - значения всех шести индикаторов.
	Values KPISet
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE
// ══════════════════════════════════════════════════════════════════════════════

// Profile содержит неизменяемые отображаемые данные сотрудника.
// Движок правил никогда не мутирует профиль.
type Profile struct {
	// Name - полное имя сотрудника.
	Name string

	// Role - должность.
	Role string

	// Avatar - идентификатор/URL аватара.
	Avatar string
}

// IsValid проверяет минимальную корректность профиля.
func (p Profile) IsValid() bool {
	return strings.TrimSpace(p.Name) != ""
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: EMPLOYEE STATE
// ══════════════════════════════════════════════════════════════════════════════

// State - центральная сущность системы: полное состояние одного сотрудника.
// Процессоры получают копию состояния и возвращают новую; единоличный
// владелец всех экземпляров - EmployeeStore.
type State struct {
	// ID - внутренний уникальный идентификатор сотрудника.
	ID string

	// Profile - неизменяемые отображаемые данные.
	Profile Profile

	// Points - текущий баланс баллов (>= 0).
	Points Points

	// Level - уровень, производный от баллов. Никогда не выставляется
	// независимо: Level == CalculateLevel(Points) после каждой мутации.
	Level Level

	// KPIs - шесть индикаторов в диапазоне [0,100].
	KPIs KPISet

	// KPIHistory - снапшоты индикаторов, от старых к новым, максимум 20.
	KPIHistory []KPISnapshot

	// Badges - множество полученных бейджей.
	Badges BadgeSet

	// Challenges - челленджи сотрудника в исходном порядке.
	Challenges []Challenge

	// Evaluations - оценки, только добавление, в порядке поступления.
	Evaluations []Evaluation

	// FeedbackEntries - записи обратной связи, свежие в начале.
	FeedbackEntries []Feedback

	// Streak - текущая серия ежедневных чек-инов.
	Streak int

	// LastCheckIn - время последнего чек-ина (nil, если чек-инов не было).
	LastCheckIn *time.Time

	// UpdatedAt - время последнего изменения состояния.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidProfile - профиль без имени.
	ErrInvalidProfile = errors.New("invalid profile: name is required")

	// ErrInvalidPoints - отрицательный баланс баллов.
	ErrInvalidPoints = errors.New("invalid points: must be non-negative")

	// ErrInvalidKPISet - неполный или невалидный набор индикаторов.
	ErrInvalidKPISet = errors.New("invalid kpi set: all six keys must be present in [0,100]")

	// ErrInvalidStreak - отрицательная серия чек-инов.
	ErrInvalidStreak = errors.New("invalid streak: must be non-negative")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStateParams содержит параметры для создания состояния сотрудника.
type NewStateParams struct {
	ID         string
	Profile    Profile
	Points     Points
	KPIs       KPISet
	Challenges []Challenge
}

// NewState создаёт состояние сотрудника с валидацией всех полей.
func NewState(params NewStateParams) (*State, error) {
	if params.ID == "" {
		return nil, errors.New("employee id is required")
	}

	if !params.Profile.IsValid() {
		return nil, ErrInvalidProfile
	}

	if !params.Points.IsValid() {
		return nil, ErrInvalidPoints
	}

	kpis := params.KPIs
	if kpis == nil {
		kpis = NewKPISet(50)
	}
	if !kpis.IsValid() {
		return nil, ErrInvalidKPISet
	}

	now := time.Now().UTC()

	return &State{
		ID:              params.ID,
		Profile:         params.Profile,
		Points:          params.Points,
		Level:           CalculateLevel(params.Points),
		KPIs:            kpis.Clone(),
		KPIHistory:      make([]KPISnapshot, 0, KPIHistoryCap),
		Badges:          NewBadgeSet(),
		Challenges:      append([]Challenge(nil), params.Challenges...),
		Evaluations:     make([]Evaluation, 0),
		FeedbackEntries: make([]Feedback, 0),
		Streak:          0,
		LastCheckIn:     nil,
		UpdatedAt:       now,
	}, nil
}

// Validate проверяет все инварианты состояния.
// Используется при импорте и в тестах.
func (s *State) Validate() error {
	if s.ID == "" {
		return errors.New("employee id is required")
	}
	if !s.Profile.IsValid() {
		return ErrInvalidProfile
	}
	if !s.Points.IsValid() {
		return ErrInvalidPoints
	}
	if s.Level != CalculateLevel(s.Points) {
		return fmt.Errorf("level %d does not match points %d", s.Level, s.Points)
	}
	if !s.KPIs.IsValid() {
		return ErrInvalidKPISet
	}
	if s.Streak < 0 {
		return ErrInvalidStreak
	}
	for i := range s.Challenges {
		if err := s.Challenges[i].Validate(); err != nil {
			return fmt.Errorf("challenge %s: %w", s.Challenges[i].ID, err)
		}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// AddPoints - единственный путь изменения баллов и уровня.
// points' = max(0, points+delta); level' пересчитывается.
// Возвращает true, если уровень вырос.
func (s *State) AddPoints(delta int) (leveledUp bool) {
	oldLevel := s.Level
	s.Points = s.Points.Add(Points(delta))
	s.Level = CalculateLevel(s.Points)
	s.UpdatedAt = time.Now().UTC()

	return s.Level > oldLevel
}

// AdjustKPI применяет дельту к индикатору с ограничением [0,100].
// Никакой процессор не пишет значение индикатора напрямую.
func (s *State) AdjustKPI(key KPIKey, delta int) {
	if !key.IsValid() {
		return
	}
	s.KPIs[key] = s.KPIs[key].Adjust(delta)
	s.UpdatedAt = time.Now().UTC()
}

// PushKPISnapshot добавляет снапшот индикаторов в историю.
// При переполнении (больше 20) самый старый снапшот удаляется.
func (s *State) PushKPISnapshot(now time.Time) {
	s.KPIHistory = append(s.KPIHistory, KPISnapshot{
		Timestamp: now,
		Values:    s.KPIs.Clone(),
	})
	if len(s.KPIHistory) > KPIHistoryCap {
		s.KPIHistory = s.KPIHistory[len(s.KPIHistory)-KPIHistoryCap:]
	}
}

// UnlockBadge добавляет бейдж, если его ещё нет.
// Возвращает true, если бейдж получен впервые.
func (s *State) UnlockBadge(id BadgeID) bool {
	if s.Badges == nil {
		s.Badges = NewBadgeSet()
	}
	if s.Badges.Add(id) {
		s.UpdatedAt = time.Now().UTC()
		return true
	}
	return false
}

// FindChallenge возвращает индекс челленджа по ID или -1.
func (s *State) FindChallenge(challengeID string) int {
	for i := range s.Challenges {
		if s.Challenges[i].ID == challengeID {
			return i
		}
	}
	return -1
}

// String возвращает строковое представление для логирования.
func (s *State) String() string {
	return fmt.Sprintf(
		"Employee{ID: %s, Name: %s, Points: %d, Level: %d, Streak: %d}",
		s.ID, s.Profile.Name, s.Points, s.Level, s.Streak,
	)
}

// Clone создаёт глубокую копию состояния.
// Процессоры работают только с копией и никогда не удерживают ссылку.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	clone := *s
	clone.KPIs = s.KPIs.Clone()
	clone.Badges = s.Badges.Clone()

	clone.KPIHistory = make([]KPISnapshot, len(s.KPIHistory))
	for i, snap := range s.KPIHistory {
		clone.KPIHistory[i] = KPISnapshot{
			Timestamp: snap.Timestamp,
			Values:    snap.Values.Clone(),
		}
	}

	clone.Challenges = append([]Challenge(nil), s.Challenges...)
	clone.Evaluations = make([]Evaluation, len(s.Evaluations))
	for i, ev := range s.Evaluations {
		clone.Evaluations[i] = ev.Clone()
	}
	clone.FeedbackEntries = append([]Feedback(nil), s.FeedbackEntries...)

	if s.LastCheckIn != nil {
		t := *s.LastCheckIn
		clone.LastCheckIn = &t
	}

	return &clone
}
