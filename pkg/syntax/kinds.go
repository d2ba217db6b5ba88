package syntax

// Node kinds of the TypeScript grammar the rules dispatch on.
const (
	KindProgram             = "program"
	KindComment             = "comment"
	KindError               = "ERROR"
	KindExpressionStatement = "expression_statement"
	KindParenthesized       = "parenthesized_expression"
	KindTernary             = "ternary_expression"
	KindTemplateString      = "template_string"
	KindString              = "string"

	KindFunctionDeclaration     = "function_declaration"
	KindFunctionExpression      = "function_expression"
	KindFunction                = "function"
	KindArrowFunction           = "arrow_function"
	KindMethodDefinition        = "method_definition"
	KindGeneratorDeclaration    = "generator_function_declaration"
	KindGeneratorFunction       = "generator_function"
	KindFunctionSignature       = "function_signature"
	KindMethodSignature         = "method_signature"
	KindAbstractMethodSignature = "abstract_method_signature"

	KindTypeAnnotation     = "type_annotation"
	KindGenericType        = "generic_type"
	KindTypeIdentifier     = "type_identifier"
	KindNestedTypeID       = "nested_type_identifier"
	KindTypeArguments      = "type_arguments"
	KindObjectType         = "object_type"
	KindPropertySignature  = "property_signature"
	KindTupleType          = "tuple_type"
	KindOptionalType       = "optional_type"
	KindRestType           = "rest_type"
	KindParenthesizedType  = "parenthesized_type"
	KindTypeAlias          = "type_alias_declaration"
	KindTypeParameters     = "type_parameters"
	KindTypeParameter      = "type_parameter"
	KindPropertyIdentifier = "property_identifier"
	KindQuestionToken      = "?"
	KindColonToken         = ":"
	KindCommaToken         = ","
	KindReturnKeyword      = "return"
	KindThrowKeyword       = "throw"
	KindYieldKeyword       = "yield"
)

// Field names recorded on converted nodes.
const (
	FieldCondition      = "condition"
	FieldConsequence    = "consequence"
	FieldAlternative    = "alternative"
	FieldReturnType     = "return_type"
	FieldName           = "name"
	FieldParameters     = "parameters"
	FieldBody           = "body"
	FieldTypeArguments  = "type_arguments"
	FieldType           = "type"
	FieldValue          = "value"
	FieldTypeParameters = "type_parameters"
	FieldArguments      = "arguments"
	FieldFunction       = "function"
)

var functionFields = []string{FieldName, FieldParameters, FieldReturnType, FieldBody, FieldTypeParameters}

// fieldsByKind lists the fields looked up for each node kind during conversion.
var fieldsByKind = map[string][]string{
	KindTernary:                 {FieldCondition, FieldConsequence, FieldAlternative},
	KindFunctionDeclaration:     functionFields,
	KindFunctionExpression:      functionFields,
	KindFunction:                functionFields,
	KindArrowFunction:           functionFields,
	KindMethodDefinition:        functionFields,
	KindGeneratorDeclaration:    functionFields,
	KindGeneratorFunction:       functionFields,
	KindFunctionSignature:       functionFields,
	KindMethodSignature:         functionFields,
	KindAbstractMethodSignature: functionFields,
	KindGenericType:             {FieldName, FieldTypeArguments},
	KindPropertySignature:       {FieldName, FieldType},
	KindTypeAlias:               {FieldName, FieldTypeParameters, FieldValue},
	KindTypeParameter:           {FieldName},
	"call_expression":           {FieldFunction, FieldArguments},
}

var functionLike = map[string]bool{
	KindFunctionDeclaration:     true,
	KindFunctionExpression:      true,
	KindFunction:                true,
	KindArrowFunction:           true,
	KindMethodDefinition:        true,
	KindGeneratorDeclaration:    true,
	KindGeneratorFunction:       true,
	KindFunctionSignature:       true,
	KindMethodSignature:         true,
	KindAbstractMethodSignature: true,
}

// IsFunctionLike reports whether kind declares a function that may carry a return type.
func IsFunctionLike(kind string) bool {
	return functionLike[kind]
}
