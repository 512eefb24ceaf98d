package session

import (
	"fmt"
	"log/slog"

	"github.com/lumell/parley/pkg/live"
)

// UpdateContextTool is the single function offered to the model.
const UpdateContextTool = "update_context"

// UpdateContextDeclaration returns the tool declaration sent at setup.
func UpdateContextDeclaration() live.FunctionDeclaration {
	return live.FunctionDeclaration{
		Name:        UpdateContextTool,
		Description: "Saves a piece of information collected from the user.",
		Parameters: &live.Schema{
			Type: "object",
			Properties: map[string]*live.Schema{
				"key":   {Type: "string", Description: "The category of info (e.g. Budget, Destination)."},
				"value": {Type: "string", Description: "The value provided by the user."},
			},
			Required: []string{"key", "value"},
		},
	}
}

// ToolResponder sends tool results back over the transport.
type ToolResponder interface {
	SendToolResponse(id, name, result string, ok bool) error
}

// Dispatcher routes model tool calls to the context store. Every call
// gets exactly one response, failures included, so the model is never
// left waiting on a dangling request.
type Dispatcher struct {
	store  *ContextStore
	logger *slog.Logger
}

// NewDispatcher wires a dispatcher to a context store.
func NewDispatcher(store *ContextStore, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{store: store, logger: logger}
}

// Dispatch handles one batch of calls, responding to each.
func (d *Dispatcher) Dispatch(calls []live.FunctionCall, responder ToolResponder) {
	for _, call := range calls {
		result, ok := d.handle(call)
		if err := responder.SendToolResponse(call.ID, call.Name, result, ok); err != nil {
			d.logger.Warn("failed to send tool response",
				"call_id", call.ID, "tool", call.Name, "error", err)
		}
	}
}

func (d *Dispatcher) handle(call live.FunctionCall) (result string, ok bool) {
	if call.Name != UpdateContextTool {
		d.logger.Warn("model requested unknown tool", "tool", call.Name)
		return fmt.Sprintf("unknown tool %q", call.Name), false
	}

	key, keyOK := stringArg(call.Args, "key")
	value, valueOK := stringArg(call.Args, "value")
	if !keyOK || key == "" {
		return "missing or invalid 'key' argument", false
	}
	if !valueOK {
		return "missing or invalid 'value' argument", false
	}

	d.store.Set(key, value)
	d.logger.Info("context updated", "key", key)
	return "saved", true
}

func stringArg(args map[string]any, name string) (string, bool) {
	v, ok := args[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
