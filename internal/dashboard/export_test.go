package dashboard

// Export internal functions for testing.

// CountsAsAvailable exports countsAsAvailable for testing.
var CountsAsAvailable = countsAsAvailable
