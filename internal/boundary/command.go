package boundary

// CommandBoundary is the envelope submitted to POST /commands. The command
// string selects the server-side handler; commandAttributes carries the
// command-specific payload.
type CommandBoundary struct {
	ID                  *CommandID     `json:"commandId,omitempty"`
	Command             string         `json:"command"`
	TargetObject        TargetObject   `json:"targetObject"`
	InvocationTimestamp string         `json:"invocationTimestamp,omitempty"`
	InvokedBy           InvokedBy      `json:"invokedBy"`
	CommandAttributes   map[string]any `json:"commandAttributes"`
}

// Known command names.
const (
	CommandUpdateACState          = "UPDATE_AC_STATE"
	CommandScheduleTask           = "SCHEDULE_TASK"
	CommandRoomACsControl         = "ROOM_ACS_CONTROL"
	CommandVerifyACBySerialAdd    = "VERIFY_AC_BY_SERIAL_THEN_ADD"
	CommandDeleteEntityWithChilds = "DELETE_ENTITY_WITH_CHILDREN"
)
