package pattern

// Builtin returns the citation pattern groups shipped with the built-in
// ontology. Group keys are concept IDs; expressions are compiled
// case-insensitively by Compile.
func Builtin() map[string][]string {
	return map[string][]string{
		// Ley General de Sociedades and its usual shorthand.
		"ley_sociedades": {
			`ley\s+(?:n[°º]?\s*)?19\.?550`,
			`ley\s+general\s+de\s+sociedades`,
			`\bL\.?S\.?C\.?\b`,
		},
		// Ley de Contrato de Trabajo plus the constitutional labor clause.
		"contrato_trabajo": {
			`ley\s+(?:n[°º]?\s*)?20\.?744`,
			`art[íi]culo\s+14\s+bis`,
			`\bL\.?C\.?T\.?\b`,
		},
		// Formación del consentimiento, CCyC arts. 971 y ss.
		"consentimiento": {
			`arts?\.?\s*97[1-9]\s*(?:del\s+)?(?:CCyC|c[óo]digo\s+civil)`,
		},
		// Deber de reparar: CCyC art. 1716, Código de Vélez art. 1109.
		"responsabilidad_civil": {
			`arts?\.?\s*1716\b`,
			`arts?\.?\s*1109\b`,
		},
		// Ley de amparo argentina.
		"amparo": {
			`ley\s+(?:n[°º]?\s*)?16\.?986`,
			`acci[óo]n\s+de\s+amparo`,
		},
		// Recurso de protección, Constitución chilena art. 20.
		"recurso_proteccion": {
			`recurso\s+de\s+protecci[óo]n`,
			`art[íi]culo\s+20\s+de\s+la\s+constituci[óo]n`,
		},
		// Prescripción liberatoria, CCyC art. 2560.
		"prescripcion": {
			`arts?\.?\s*2560\b`,
		},
	}
}
