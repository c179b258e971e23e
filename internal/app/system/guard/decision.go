package guard

import "net/http"

// Kind classifies a guard outcome.
type Kind uint8

const (
	// KindContinue passes control to the next guard (or the handler).
	KindContinue Kind = iota
	// KindDeny is an expected negative result: not signed in, not allowed.
	KindDeny
	// KindFail is an unexpected fault such as an unreachable store.
	KindFail
	// KindRespond ends the request with a non-error answer.
	KindRespond
)

func (k Kind) String() string {
	switch k {
	case KindContinue:
		return "continue"
	case KindDeny:
		return "deny"
	case KindFail:
		return "fail"
	case KindRespond:
		return "respond"
	}
	return "unknown"
}

// Decision is what a guard returns.
type Decision struct {
	Kind     Kind
	Status   int
	Reason   string // localizable key
	Redirect string // Deny only; browser routes
	Body     any    // Respond only
	Err      error  // Fail only; never sent to the client
}

// Continue lets the pipeline proceed.
func Continue() Decision { return Decision{Kind: KindContinue} }

// Deny stops the pipeline with status and a reason key.
func Deny(status int, reason string) Decision {
	return Decision{Kind: KindDeny, Status: status, Reason: reason}
}

// DenyRedirect stops the pipeline and sends the browser to target.
func DenyRedirect(target string) Decision {
	return Decision{Kind: KindDeny, Status: http.StatusSeeOther, Redirect: target}
}

// Fail stops the pipeline with a 500 and records err for operators.
func Fail(reason string, err error) Decision {
	return Decision{Kind: KindFail, Status: http.StatusInternalServerError, Reason: reason, Err: err}
}

// Respond stops the pipeline with a successful body.
func Respond(status int, body any) Decision {
	return Decision{Kind: KindRespond, Status: status, Body: body}
}

// Passed reports whether the decision lets the request through.
func (d Decision) Passed() bool { return d.Kind == KindContinue }
