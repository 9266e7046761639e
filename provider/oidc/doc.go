// Package oidc validates ID tokens issued by an external OpenID Connect
// provider.
//
// Pair a TokenValidator with identity.FederatedResolver: the validator
// proves who the provider says the caller is, and the resolver maps that
// provider subject onto a local account.
package oidc
