package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// EncryptedPlaceholder is stored in place of user-entered amounts and memos.
const EncryptedPlaceholder = "Encrypted"
