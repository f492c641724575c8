// Package session owns the per-process session state of the admin
// front-end: the authenticated user, the selected filial, the canonical
// permission set and the resolved panel list. State is rebuilt wholesale on
// login, filial switch and reload, and every access query fails closed when
// no filial is selected.
package session

import "time"

// Filial is the branch context permissions are scoped to.
type Filial struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// User is the authenticated session user.
type User struct {
	ID                int     `json:"id"`
	Nome              string  `json:"nome"`
	Tipo              string  `json:"tipo"`
	FilialSelecionada *Filial `json:"filialSelecionada,omitempty"`
}

// clone returns a deep copy so callers never alias manager-owned state.
func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	copied := *u
	if u.FilialSelecionada != nil {
		f := *u.FilialSelecionada
		copied.FilialSelecionada = &f
	}
	return &copied
}

// filialID returns the selected filial id, or 0 when none is selected.
func (u *User) filialID() int {
	if u == nil || u.FilialSelecionada == nil {
		return 0
	}
	return u.FilialSelecionada.ID
}

// now is stubbed in tests.
var now = time.Now
