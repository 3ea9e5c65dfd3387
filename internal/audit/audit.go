// Package audit формирует записи журнала аудита для мутирующих операций.
// Снимки до/после хранятся сериализованными JSON-строками; подробное
// сравнение полей остаётся задачей уровня представления
package audit

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/hr-compliance-api/internal/domain"
)

// Entry строит запись журнала для изменения одной сущности.
// Для UPDATE и PATCH дополнительно вычисляется список изменённых полей
func Entry(table string, recordID int64, action domain.HistoryAction, oldValue, newValue any, actorUserID int64) *domain.History {
	old := Snapshot(oldValue)
	updated := Snapshot(newValue)

	h := &domain.History{
		TableName_: table,
		RecordID:   strconv.FormatInt(recordID, 10),
		Action:     action,
		OldValues:  old,
		NewValues:  updated,
		UserID:     strconv.FormatInt(actorUserID, 10),
		Timestamp:  time.Now().UTC(),
	}

	if action == domain.ActionUpdate || action == domain.ActionPatch {
		h.ChangedFields = ChangedFields(old, updated)
	}

	return h
}

// Snapshot сериализует сущность в JSON-строку; nil на входе даёт nil
func Snapshot(v any) *string {
	if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// ChangedFields возвращает отсортированный JSON-список имён полей,
// значения которых различаются между снимками
func ChangedFields(oldJSON, newJSON *string) *string {
	if oldJSON == nil || newJSON == nil {
		return nil
	}

	var oldMap, newMap map[string]any
	if err := json.Unmarshal([]byte(*oldJSON), &oldMap); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(*newJSON), &newMap); err != nil {
		return nil
	}

	changed := make([]string, 0)
	for key, newVal := range newMap {
		oldVal, ok := oldMap[key]
		if !ok || !reflect.DeepEqual(oldVal, newVal) {
			changed = append(changed, key)
		}
	}
	for key := range oldMap {
		if _, ok := newMap[key]; !ok {
			changed = append(changed, key)
		}
	}

	if len(changed) == 0 {
		return nil
	}

	sort.Strings(changed)
	data, err := json.Marshal(changed)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}
