package analyze

import "fmt"

func summarizePrompt(url, text string) string {
	return fmt.Sprintf(`
아래 웹페이지의 내용을 분석해서 title, summary, tags를 뽑아주세요.

- title: 웹페이지의 핵심 주제를 잘 나타내는 간결한 제목 (한국어)
- summary: 배열 형식으로 3~5개의 항목. 각 항목은 "[소제목 이모지] 주제 키워드\n- 요약 문장 1\n- 요약 문장 2..." 구조의 string입니다.
    - 각 항목은 서로 다른 핵심 내용을 담아야 하며, 중복 없이 작성
    - 줄바꿈(\n)으로 소제목과 본문을 구분
    - 각 본문은 실제 웹페이지의 구체적인 정보, 수치, 사례, 인사이트를 포함
    - 각 문장은 반드시 '~습니다'로 끝나는 격식체(존댓말)로 작성해 주세요.
- tags: 웹페이지의 주제, 카테고리, 핵심 키워드를 짧고 명확한 한 단어(한국어 또는 영어)로만 뽑아주세요.
    - 예: ["AI", "캐싱", "최적화", "추천", "검색", "챗봇"]
    - 문장, 설명, 긴 구문은 절대 포함하지 마세요. 최대 5개, 평균 2~3개

아래 JSON 형식으로만 응답해 주세요. 다른 설명, 코드블록( %s ) 등은 절대 포함하지 마세요.

예시:
{"title": "서비스 혁신 사례", "summary": ["🚀 혁신 도입\n- 새로운 AI 기술을 도입해 서비스 품질이 30%% 향상되었습니다."], "tags": ["AI", "자동화"]}

웹페이지 URL: %s
내용: %s
`, "```", url, text)
}

func classifyPrompt(content string) string {
	return fmt.Sprintf(`
아래 글이 IT, 소프트웨어, 하드웨어, 프로그래밍, 컴퓨터, 인터넷, 기술 트렌드 등 기술과 직접적으로 관련된 내용인지 판단하세요.

다음과 같은 경우에는 모두 'false'로 답하세요:
- 비속어, 욕설, 혐오 표현이 포함된 글
- 명백한 광고, 상업적 홍보 등 상업적 목적이 명확한 글
- 도배(의미 없는 반복, 과도한 이모티콘/문자 반복 등)
- 정치, 종교, 일상, 잡담, 기술과 무관한 내용

'true' 또는 'false' 한 단어로만, 다른 말은 절대 하지 마세요.

글: %s
`, content)
}
