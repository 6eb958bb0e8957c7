package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Command actions the assistant may propose. Every action is a write — the
// assistant never executes anything itself; proposals go back to the operator
// for confirmation first.
const (
	ActionAssignStock         = "assign_stock"
	ActionSetStock            = "set_stock"
	ActionPauseListing        = "pause_listing"
	ActionActivateListing     = "activate_listing"
	ActionApplyPauseRule      = "apply_pause_rule"
	ActionApplyVisibilityRule = "apply_visibility_rule"
)

// Command is a typed, fully-parameterized operation proposed by the assistant.
// Which fields are meaningful depends on Action.
type Command struct {
	Action           string   `json:"action" jsonschema:"enum=assign_stock,enum=set_stock,enum=pause_listing,enum=activate_listing,enum=apply_pause_rule,enum=apply_visibility_rule,description=The operation to perform"`
	SKU              string   `json:"sku" jsonschema:"description=Product SKU for single-product actions"`
	SKUs             []string `json:"skus" jsonschema:"description=Product SKUs for bulk rule actions"`
	ListingID        string   `json:"listing_id" jsonschema:"description=Listing ID for pause_listing and activate_listing"`
	TargetLocationID string   `json:"target_location_id" jsonschema:"description=Destination location ID for assign_stock"`
	SourceLocationID string   `json:"source_location_id" jsonschema:"description=Source location ID for assign_stock; empty string means the unassigned pool"`
	Quantity         int      `json:"quantity" jsonschema:"description=Unit count for assign_stock"`
	Stock            int      `json:"stock" jsonschema:"description=New total stock for set_stock"`
	Committed        int      `json:"committed" jsonschema:"description=New committed count for set_stock"`
	Enabled          bool     `json:"enabled" jsonschema:"description=Whether the rule is switched on for bulk rule actions"`
	Threshold        int      `json:"threshold" jsonschema:"description=Buffer threshold or visibility cap for bulk rule actions"`
}

// AssistantReply is the structured response of one interpretation call: either
// a clarification question or a command proposal, never both.
type AssistantReply struct {
	IsClarification bool    `json:"is_clarification" jsonschema:"description=True when the input was too ambiguous to propose a command"`
	Clarification   string  `json:"clarification" jsonschema:"description=Question back to the operator when is_clarification is true"`
	Command         Command `json:"command" jsonschema:"description=The proposed command when is_clarification is false"`
	Reasoning       string  `json:"reasoning" jsonschema:"description=Short explanation of the interpretation"`
	Confidence      float64 `json:"confidence" jsonschema:"description=Confidence score between 0.0 and 1.0"`
}

type AgentService interface {
	InterpretCommand(ctx context.Context, naturalLanguage, catalogSummary, locationSummary string) (*AssistantReply, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretCommand turns a natural-language operator request into a typed
// command proposal (or a clarification question). The catalog and location
// summaries ground the model in real SKUs, listing IDs, and location IDs.
func (a *Agent) InterpretCommand(ctx context.Context, naturalLanguage, catalogSummary, locationSummary string) (*AssistantReply, error) {
	prompt := fmt.Sprintf(`You are an inventory operations assistant.
Your goal is to interpret an operator request in natural language and propose exactly one typed command.
Rules:
1. Use ONLY SKUs, listing IDs, and location IDs from the data below.
2. Never invent quantities; if the request does not state one, ask for clarification.
3. If the request is ambiguous or matches nothing below, set is_clarification to true and ask one precise question.
4. For assign_stock, an empty source_location_id means drawing from the unassigned pool.
5. Provide a confidence score (0.0-1.0) and short reasoning.

Products and listings:
%s

Storage locations:
%s

Request: %s`, catalogSummary, locationSummary, naturalLanguage)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "inventory_command_proposal",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A proposed inventory operation or a clarification question"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var reply AssistantReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if err := reply.Validate(); err != nil {
		return nil, fmt.Errorf("assistant reply validation failed: %w", err)
	}

	return &reply, nil
}

// Validate checks structural consistency of a reply before it is surfaced.
func (r *AssistantReply) Validate() error {
	if r.IsClarification {
		if r.Clarification == "" {
			return fmt.Errorf("clarification reply without a question")
		}
		return nil
	}
	switch r.Command.Action {
	case ActionAssignStock, ActionSetStock, ActionPauseListing,
		ActionActivateListing, ActionApplyPauseRule, ActionApplyVisibilityRule:
		return nil
	default:
		return fmt.Errorf("unknown action %q", r.Command.Action)
	}
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v AssistantReply
	return reflector.Reflect(v)
}
