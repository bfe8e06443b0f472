package adapter

var ValidateEmbedding = validateEmbedding
