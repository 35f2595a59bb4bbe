package judge

import "google.golang.org/genai"

func object(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

func arrayOf(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

var (
	str  = &genai.Schema{Type: genai.TypeString}
	num  = &genai.Schema{Type: genai.TypeNumber}
	flag = &genai.Schema{Type: genai.TypeBoolean}
)

var spellCheckSchema = object(map[string]*genai.Schema{
	"correctedText": str,
	"errorsFound":   flag,
	"explanation":   str,
}, "correctedText", "errorsFound", "explanation")

var judgementSchema = object(map[string]*genai.Schema{
	"persuasiveness":    num,
	"politeness":        num,
	"logic":             num,
	"clientOrientation": num,
	"satisfaction":      num,
	"feedback":          str,
	"score":             num,
}, "persuasiveness", "politeness", "logic", "clientOrientation", "satisfaction", "feedback", "score")

var optionSchema = object(map[string]*genai.Schema{
	"text":     str,
	"score":    num,
	"feedback": str,
}, "text", "score", "feedback")

var quizSchema = arrayOf(object(map[string]*genai.Schema{
	"q":       str,
	"options": arrayOf(optionSchema),
}, "q", "options"))

var scenarioSchema = object(map[string]*genai.Schema{
	"product": str,
	"steps": arrayOf(object(map[string]*genai.Schema{
		"client":  str,
		"options": arrayOf(optionSchema),
	}, "client", "options")),
}, "product", "steps")
