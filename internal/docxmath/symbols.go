// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package docxmath

const lineBreak = `\\`

// specials are escaped with a backslash inside runs.
const specials = "{}_^#&$%~"

var greek = []string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa",
	"lambda", "mu", "nu", "xi", "omicron", "pi", "rho", "varsigma", "sigma", "tau",
	"upsilon", "phi", "chi", "psi", "omega",
}

// symbol maps a math character to its LaTeX spelling. Mathematical italic
// letters fold to ASCII; Greek letters and operators become commands
// followed by a space.
func symbol(r rune) (string, bool) {
	switch {
	case r >= 0x1D434 && r <= 0x1D44D:
		return string('A' + (r - 0x1D434)), true
	case r >= 0x1D44E && r <= 0x1D467:
		return string('a' + (r - 0x1D44E)), true
	case r == 'ℎ':
		return "h", true
	case r >= 0x1D6FC && r <= 0x1D714:
		return `\` + greek[r-0x1D6FC] + " ", true
	case r >= 'α' && r <= 'ω':
		return `\` + greek[r-'α'] + " ", true
	}
	s, ok := operators[r]
	return s, ok
}

var operators = map[rune]string{
	'→': `\rightarrow `,
	'←': `\leftarrow `,
	'↔': `\leftrightarrow `,
	'⇒': `\Rightarrow `,
	'⇔': `\Leftrightarrow `,
	'↑': `\uparrow `,
	'↓': `\downarrow `,
	'≠': `\ne `,
	'≤': `\leq `,
	'≥': `\geq `,
	'≈': `\approx `,
	'≡': `\equiv `,
	'∼': `\sim `,
	'≪': `\ll `,
	'≫': `\gg `,
	'∈': `\in `,
	'∉': `\notin `,
	'∋': `\ni `,
	'⊂': `\subset `,
	'⊆': `\subseteq `,
	'∪': `\cup `,
	'∩': `\cap `,
	'∅': `\emptyset `,
	'∀': `\forall `,
	'∃': `\exists `,
	'∞': `\infty `,
	'∂': `\partial `,
	'∇': `\nabla `,
	'±': `\pm `,
	'∓': `\mp `,
	'×': `\times `,
	'÷': `\div `,
	'⋅': `\cdot `,
	'·': `\cdot `,
	'…': `\ldots `,
	'⋯': `\cdots `,
	'⋮': `\vdots `,
	'⋱': `\ddots `,
	'Δ': `\Delta `,
	'Γ': `\Gamma `,
	'Θ': `\Theta `,
	'Λ': `\Lambda `,
	'Π': `\Pi `,
	'Σ': `\Sigma `,
	'Φ': `\Phi `,
	'Ψ': `\Psi `,
	'Ω': `\Omega `,
}

var bigOperators = map[string]string{
	"∑": `\sum`,
	"∏": `\prod`,
	"∐": `\coprod`,
	"∫": `\int`,
	"∬": `\iint`,
	"∭": `\iiint`,
	"∮": `\oint`,
	"⋀": `\bigwedge`,
	"⋁": `\bigvee`,
	"⋂": `\bigcap`,
	"⋃": `\bigcup`,
	"⨀": `\bigodot`,
	"⨁": `\bigoplus`,
	"⨂": `\bigotimes`,
}

var functions = map[string]string{
	"sin": `\sin`, "cos": `\cos`, "tan": `\tan`, "cot": `\cot`,
	"sec": `\sec`, "csc": `\csc`,
	"arcsin": `\arcsin`, "arccos": `\arccos`, "arctan": `\arctan`,
	"sinh": `\sinh`, "cosh": `\cosh`, "tanh": `\tanh`, "coth": `\coth`,
	"log": `\log`, "ln": `\ln`, "exp": `\exp`,
}

var limitOperators = map[string]string{
	"lim": `\lim`,
	"max": `\max`,
	"min": `\min`,
	"sup": `\sup`,
	"inf": `\inf`,
}

// accents maps combining and grouping characters to a LaTeX format taking
// the accented expression.
var accents = map[string]string{
	"\u0300": `\grave{%s}`,
	"\u0301": `\acute{%s}`,
	"\u0302": `\hat{%s}`,
	"\u0303": `\tilde{%s}`,
	"\u0304": `\bar{%s}`,
	"\u0305": `\overline{%s}`,
	"\u0306": `\breve{%s}`,
	"\u0307": `\dot{%s}`,
	"\u0308": `\ddot{%s}`,
	"\u030c": `\check{%s}`,
	"\u20d6": `\overleftarrow{%s}`,
	"\u20d7": `\vec{%s}`,
	"\u20db": `\dddot{%s}`,
	"\u20e1": `\overleftrightarrow{%s}`,
	"\u0331": `\underline{%s}`,
	"\u23de": `\overbrace{%s}`,
	"\u23df": `\underbrace{%s}`,
	"\u23dc": `\overparen{%s}`,
	"\u23dd": `\underparen{%s}`,
	"\u23b4": `\overbracket{%s}`,
	"\u23b5": `\underbracket{%s}`,
}

var fences = map[string]string{
	"⟨": `\langle `,
	"⟩": `\rangle `,
	"‖": `\|`,
	"⌊": `\lfloor `,
	"⌋": `\rfloor `,
	"⌈": `\lceil `,
	"⌉": `\rceil `,
}
