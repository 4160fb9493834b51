package ignore

// defaultPatterns is the built-in lowest-precedence ignore set: version
// control metadata, dependency and cache directories, and artifacts that are
// never useful as AI context. A negation in any later source can re-include
// individual entries.
const defaultPatterns = `# version control
.git/
.hg/
.svn/

# dependency and build output
node_modules/
vendor/
dist/
build/
target/
__pycache__/
.venv/
venv/

# caches
.cache/
.mypy_cache/
.pytest_cache/
.ruff_cache/
.idea/
.vscode/
.DS_Store

# binary-ish artifacts
*.pyc
*.pyo
*.class
*.o
*.a
*.so
*.dylib
*.dll
*.exe
*.bin
*.zip
*.tar
*.gz
*.7z
*.jar
*.png
*.jpg
*.jpeg
*.gif
*.ico
*.pdf
*.woff
*.woff2
*.ttf
*.eot

# lock and log noise
*.log
*.lock
`
