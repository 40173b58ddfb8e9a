package domain

import "strings"

// ActionType - команда клиента, приходящая по WebSocket
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionStart
	ActionInput
	ActionStop
	ActionGrantUpgrade // админская команда, только для отладки
)

var actionStringToCmd = map[string]ActionType{
	"INIT":  ActionInit,
	"START": ActionStart,
	"INPUT": ActionInput,
	"STOP":  ActionStop,

	"GRANT_UPGRADE": ActionGrantUpgrade,
}

var actionCmdToString = map[ActionType]string{
	ActionInit:  "INIT",
	ActionStart: "START",
	ActionInput: "INPUT",
	ActionStop:  "STOP",

	ActionGrantUpgrade: "GRANT_UPGRADE",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	if val, ok := actionStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
