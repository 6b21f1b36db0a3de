// Package domain contains the core business entities of the library: books,
// users and loans, together with their validation rules and the state
// transitions a loan can go through. It is independent of any storage or
// delivery mechanism.
package domain
