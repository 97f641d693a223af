package urls

// Documentation URLs shown in CLI help and troubleshooting output

// ECPReference is the External Control Protocol reference, listing the
// queries, keypress names and search parameters a device accepts.
const ECPReference = "https://developer.roku.com/docs/developer-program/dev-tools/external-control-api.md"

// ECPKeypressKeys is the section of the reference that lists valid key names.
const ECPKeypressKeys = ECPReference + "#keypress-key-values"
