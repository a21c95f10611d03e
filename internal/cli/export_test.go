package cli

// Export internal functions for testing.

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// IsValidConfigKey exports isValidConfigKey for testing.
var IsValidConfigKey = isValidConfigKey

// ValidConfigKeys exports validConfigKeys for testing.
var ValidConfigKeys = validConfigKeys

// RunRender exports runRender for testing.
var RunRender = runRender

// RenderOptions exports renderOptions for testing.
type RenderOptions = renderOptions

// RunDashboard exports runDashboard for testing.
var RunDashboard = runDashboard

// DashboardOptions exports dashboardOptions for testing.
type DashboardOptions = dashboardOptions

// FetchFlags exports fetchFlags for testing.
type FetchFlags = fetchFlags

// ResolveFetchSettings exports resolveFetchSettings for testing.
var ResolveFetchSettings = resolveFetchSettings

// InferKeys exports inferKeys for testing.
var InferKeys = inferKeys

// DefaultRenderOutput exports defaultRenderOutput for testing.
var DefaultRenderOutput = defaultRenderOutput
