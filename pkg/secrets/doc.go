/*
Package secrets resolves ${secret:name} references in configuration values.

Provider credentials should not sit in a YAML file that is committed or
baked into an image. Instead the file names a secret:

	provider:
	  tier: openai
	  api_key: ${secret:openai-api-key}

and the reference is looked up at startup, first in the environment and
then in a secrets directory:

  - Environment: the name is upper-cased, hyphens become underscores and
    the configured prefix is prepended, so "openai-api-key" reads
    MAIRCHEN_SECRET_OPENAI_API_KEY.
  - Directory: one file per secret, named like the secret, as mounted by
    Docker (/run/secrets) or Kubernetes. Surrounding whitespace is trimmed.

# Usage

	resolver := secrets.NewResolver(
		secrets.NewEnvProvider("MAIRCHEN_SECRET_"),
		fileProvider,
	)
	key, err := resolver.Resolve(ctx, cfg.Provider.APIKey)

Values without a reference are returned unchanged. A reference that no
provider can satisfy is an error; it is never passed on literally.
*/
package secrets
