package combat

import (
	"bytes"
	"log/slog"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Battle narration is assembled from templates so wording lives in one
// place. Data fields are whatever the call site provides.
var narration = template.Must(template.New("narration").Funcs(sprig.TxtFuncMap()).Parse(`
{{- define "frozen_self" -}}
You are frozen and cannot move!
{{- end -}}

{{- define "frozen_enemy" -}}
{{ .Enemy }} is frozen and skips its turn!
{{- end -}}

{{- define "attack" -}}
{{ if .Crit }}CRITICAL HIT! {{ end }}Using {{ .Stance }} stance, you deal {{ .Damage }} damage!
{{- end -}}

{{- define "attack_stealth" -}}
You attack, but {{ .Enemy }} is invisible!
{{- end -}}

{{- define "weapon_froze" -}}
 The blow FROZE your opponent!
{{- end -}}

{{- define "reflected" -}}
 {{ .Damage }} damage was REFLECTED back at you!
{{- end -}}

{{- define "item_heal" -}}
Used {{ .Item }} to restore {{ .Amount }} HP.
{{- end -}}

{{- define "item_freeze" -}}
Used {{ .Item }} and FROZE the opponent!
{{- end -}}

{{- define "item_stealth" -}}
Used {{ .Item }} and became INVISIBLE!
{{- end -}}

{{- define "item_fizzle" -}}
Used {{ .Item }}, but nothing happened.
{{- end -}}

{{- define "item_spent" -}}
{{ .Item }} is already spent!
{{- end -}}

{{- define "ai_heal" -}}
{{ .Enemy }} used {{ .Item }} and restored {{ .Amount }} HP!
{{- end -}}

{{- define "ai_stealth" -}}
{{ .Enemy }} used {{ .Item }} and vanished from sight!
{{- end -}}

{{- define "ai_defensive" -}}
{{ .Enemy }} takes a defensive stance{{ if .Items }} with its {{ .Items | join ", " }}{{ end }}, dealing {{ .Damage }} damage!
{{- end -}}

{{- define "ai_attack" -}}
{{ if .Crit }}CRITICAL! {{ end }}{{ .Enemy }} attacks{{ if ne .Stance "normal" }} in {{ .Stance }} stance{{ end }}{{ if .Items }} using {{ .Items | join ", " }}{{ end }} for {{ .Damage }} damage!
{{- end -}}

{{- define "ai_vs_stealth" -}}
{{ .Enemy }} tried to attack, but you are invisible and took 0 damage!
{{- end -}}

{{- define "pvp_line" -}}
{{ .Name }}: {{ if .Frozen }}frozen!{{ else if .Stealth }}miss (stealth){{ else }}{{ .Damage }} dmg{{ if .Crit }} CRIT!{{ end }}{{ end }}
{{- end -}}
`))

func narrate(name string, data any) string {
	var buf bytes.Buffer
	if err := narration.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Warn("expanding narration template", "template", name, "error", err)
		return ""
	}
	return buf.String()
}
