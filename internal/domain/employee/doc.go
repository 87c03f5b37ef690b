// Package employee содержит доменную модель сотрудника ZV Rewards Hub.
//
// Это ядро бизнес-логики системы "ZV Rewards Hub". Пакет определяет:
//
//   - Сущности (Entities): State, Challenge, Evaluation, Feedback, Reward
//   - Value Objects: Points, Level, KPIKey, KPIValue, BadgeID, StreakTransition
//   - Интерфейсы репозиториев: Store, SnapshotRepository
//   - Формат импорта/экспорта: Document
//
// # Архитектурные принципы
//
// Пакет следует принципам Clean Architecture и DDD:
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - определяет интерфейсы, которые реализуются в infrastructure
//  3. Rich Domain Model - бизнес-логика инкапсулирована в сущностях
//
// # Модель состояния
//
// State - полное состояние одного сотрудника: баланс баллов, производный
// уровень, шесть KPI-индикаторов, бейджи, челленджи, оценки, обратная связь
// и серия ежедневных чек-инов. Состояние мутируется только процессорами
// (internal/application/command), каждый из которых получает копию,
// применяет детерминированные правила и возвращает новое значение.
//
//	state, err := NewState(NewStateParams{
//	    ID:      uuid.New().String(),
//	    Profile: Profile{Name: "Имя Сотрудника", Role: "Engineer"},
//	    Points:  Points(0),
//	})
//
// # Ключевые правила
//
// Уровень всегда производный и никогда не хранится независимо:
//
//	level = points/500 + 1
//
// Баллы меняются только через AddPoints - единственный путь мутации:
//
//	leveledUp := state.AddPoints(120)
//
// Индикаторы меняются только через AdjustKPI с ограничением [0,100]:
//
//	state.AdjustKPI(KPIProductivity, +5)
//
// Индикатор absenteeism инвертирован: меньшее значение желательно,
// поэтому дельты для него меняют знак (см. Challenge.CompletionKPIDelta
// и Evaluation.KPIDelta).
//
// # Серия чек-инов
//
// Сравнение идёт по локальным календарным дням:
//
//	transition := ClassifyCheckIn(state.LastCheckIn, now, loc)
//	newStreak := NextStreak(state.Streak, transition)
//	points := CheckInPoints(newStreak)
package employee
