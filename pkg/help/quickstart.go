package help

const QuickstartYAML = `# wordrank Quick Start

sources:
  text: "Inline text via --text"
  input: "A text file via --input (UTF-8, falls back to latin-1; .html/.htm converted to text)"
  url: "A web page via --url (readable article text)"

commands:
  rank_text: |
    wordrank --text "ola ola mundo" --n 2

  rank_file: |
    wordrank --input notes.txt --n 5

  rank_page: |
    wordrank --url "https://example.com" --n 20

  save_outputs: |
    wordrank --input notes.txt --out output/notes --csv --json --yaml

  text_stats: |
    wordrank stats --input notes.txt
    wordrank stats --text "Isto é Python." --json

  http_service: |
    wordrank serve --addr :8000
    curl -s localhost:8000/analyze -d '{"text": "ola ola mundo", "n": 2}'

  journal: |
    wordrank --journal runs.db --text "ola ola mundo"
    wordrank --journal runs.db runs
    wordrank --journal runs.db runs show <id-prefix>
    wordrank --journal runs.db runs prune --older-than 720h

outputs:
  - "Report is always printed to stdout"
  - "--out, --csv, --json or --yaml also save the report (default output/report.txt)"
  - "--out without extension: existing directory gets report.txt, otherwise .txt is appended"
  - "CSV, JSON and YAML share the report's name with their own extension"

normalization:
  - "Lowercase, strip accents (NFKD + drop non-ASCII), punctuation becomes a space"
  - "Non-Latin scripts (Cyrillic, CJK, ...) produce no words"
  - "Ties are ordered alphabetically"

config_file:
  path: "wordrank.yaml (or --config <path>)"
  keys: [default_n, log_dir, log_level, journal_path, output_dir, server.addr, server.max_n, server.max_body_bytes]

error_behavior:
  - "Exit codes: 0=success, 1=invalid --n or empty text, 2=usage error"
  - "Logs: logs/wordrank.log (JSON); warnings and errors also on stderr"
`
