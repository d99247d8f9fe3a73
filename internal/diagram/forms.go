package diagram

import (
	"strings"

	"usagestats/pkg/types"
)

// FormCategory is how a user task's form is sourced.
type FormCategory string

const (
	FormNone      FormCategory = ""
	FormEmbedded  FormCategory = "embedded"
	FormExternal  FormCategory = "external"
	FormGenerated FormCategory = "generated"
	FormOther     FormCategory = "other"
)

var externalFormKeyPrefixes = []string{"app:", "deployment:", "http://", "https://"}

// ClassifyForm returns the form category of a user task. Camunda 7
// attributes take precedence over Camunda 8 form definitions, in the order
// formKey, formRef, formData.
func ClassifyForm(task Node) FormCategory {
	if key, ok := task.Attr(NSCamunda, "formKey"); ok && strings.TrimSpace(key) != "" {
		return classifyFormKey(strings.TrimSpace(key))
	}
	if ref, ok := task.Attr(NSCamunda, "formRef"); ok && strings.TrimSpace(ref) != "" {
		return FormExternal
	}
	if _, ok := task.Extension(NSCamunda, "formData"); ok {
		return FormGenerated
	}
	if def, ok := task.Extension(NSZeebe, "formDefinition"); ok {
		return classifyZeebeForm(def)
	}
	return FormNone
}

func classifyFormKey(key string) FormCategory {
	if strings.HasPrefix(key, "embedded:") {
		return FormEmbedded
	}
	for _, p := range externalFormKeyPrefixes {
		if strings.HasPrefix(key, p) {
			return FormExternal
		}
	}
	return FormOther
}

func classifyZeebeForm(def Node) FormCategory {
	if key, ok := def.Attr("", "formKey"); ok && key != "" {
		if strings.HasPrefix(key, "camunda-forms:bpmn:") {
			return FormEmbedded
		}
		return FormOther
	}
	if id, ok := def.Attr("", "formId"); ok && id != "" {
		return FormExternal
	}
	if ref, ok := def.Attr("", "externalReference"); ok && ref != "" {
		return FormExternal
	}
	return FormNone
}

// userTaskMetrics tallies tasks into the wire structure.
func userTaskMetrics(tasks []Node) types.UserTaskMetrics {
	m := types.UserTaskMetrics{Count: len(tasks)}
	for _, t := range tasks {
		switch ClassifyForm(t) {
		case FormEmbedded:
			m.Form.Embedded++
		case FormExternal:
			m.Form.External++
		case FormGenerated:
			m.Form.Generated++
		case FormOther:
			m.Form.Other++
		default:
			continue
		}
		m.Form.Count++
	}
	return m
}
