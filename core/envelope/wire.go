package envelope

// RequestEnvelope is the JSON body that replaces an encrypted request payload.
type RequestEnvelope struct {
	EncryptedPayload string `json:"encryptedPayload"`
}

// ResponseEnvelope is the JSON body of an encrypted reply. The decrypted
// payload replaces the whole body for the caller.
type ResponseEnvelope struct {
	Response string `json:"response"`
}
