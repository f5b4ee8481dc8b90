package transformation

import "github.com/platinummonkey/weavekit/pkg/schema"

// OperationType is what an operation does to its property
type OperationType string

const (
	// OperationAppend adds a new property to every object
	OperationAppend OperationType = "append"
	// OperationUpdate rewrites an existing property
	OperationUpdate OperationType = "update"
)

// Operation transforms one property of every object in a collection using
// an instruction and the values of ViewProperties
type Operation struct {
	PropertyName   string          `json:"property_name" yaml:"property_name"`
	ViewProperties []string        `json:"view_properties" yaml:"view_properties"`
	Instruction    string          `json:"instruction" yaml:"instruction"`
	Type           OperationType   `json:"operation_type" yaml:"operation_type"`
	DataType       schema.DataType `json:"data_type,omitempty" yaml:"data_type,omitempty"`
}

// DependentOperation is an operation that needs other operations to have
// run first
type DependentOperation struct {
	Operation Operation   `json:"operation" yaml:"operation"`
	DependsOn []Operation `json:"depends_on" yaml:"depends_on"`
}

// Step is an Operation or a DependentOperation
type Step interface {
	Root() Operation
}

// Root implements Step
func (o Operation) Root() Operation { return o }

// Root implements Step
func (d DependentOperation) Root() Operation { return d.Operation }

// AppendProperty creates an operation that adds a property of dataType
func AppendProperty(name string, dataType schema.DataType, viewProperties []string, instruction string) Operation {
	return Operation{
		PropertyName:   name,
		ViewProperties: viewProperties,
		Instruction:    instruction,
		Type:           OperationAppend,
		DataType:       dataType,
	}
}

// UpdateProperty creates an operation that rewrites an existing property
func UpdateProperty(name string, viewProperties []string, instruction string) Operation {
	return Operation{
		PropertyName:   name,
		ViewProperties: viewProperties,
		Instruction:    instruction,
		Type:           OperationUpdate,
	}
}

// After declares that op depends on deps
func After(op Operation, deps ...Operation) DependentOperation {
	if deps == nil {
		deps = []Operation{}
	}
	return DependentOperation{Operation: op, DependsOn: deps}
}

// Response identifies the workflow started for an operation
type Response struct {
	OperationName string `json:"operation_name"`
	WorkflowID    string `json:"workflow_id"`
}

type appendProperty struct {
	Name     string          `json:"name"`
	DataType schema.DataType `json:"data_type"`
}

type createRequest struct {
	Instruction    string            `json:"instruction"`
	ViewProperties []string          `json:"view_properties"`
	Collection     string            `json:"collection"`
	Headers        map[string]string `json:"headers"`
	OnProperties   []appendProperty  `json:"on_properties"`
}

type updateRequest struct {
	Instruction    string            `json:"instruction"`
	ViewProperties []string          `json:"view_properties"`
	Collection     string            `json:"collection"`
	Headers        map[string]string `json:"headers"`
	OnProperties   []string          `json:"on_properties"`
}

type workflowResponse struct {
	WorkflowID string `json:"workflow_id"`
}
